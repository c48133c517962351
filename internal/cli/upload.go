package cli

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func newUploadCmd(deps Deps) *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload documents, transcripts or recordings into the document bucket",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uploader, release, err := deps.Uploader(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			for _, path := range args {
				key := objectKey(prefix, path)
				if err := uploadFile(cmd, uploader, path, key); err != nil {
					return fmt.Errorf("upload %s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s -> %s\n", path, key)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "object key prefix, e.g. the prefix configured on a document source")
	return cmd
}

func uploadFile(cmd *cobra.Command, uploader Uploader, path, key string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("is a directory")
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return uploader.UploadFile(cmd.Context(), key, f, info.Size(), contentType)
}

func objectKey(prefix, path string) string {
	name := filepath.Base(path)
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
