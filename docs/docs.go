// Package docs holds the OpenAPI description served at /swagger/*.
// Regenerate with: swag init -g cmd/api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["System"],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "object", "additionalProperties": true}
                    }
                }
            }
        },
        "/v1/cron/knowledge-sources": {
            "get": {
                "security": [{"CronSecret": []}],
                "description": "Returns each knowledge source with its interval, last sync, next sync and whether it is due now.",
                "produces": ["application/json"],
                "tags": ["Cron"],
                "summary": "List knowledge source schedules",
                "responses": {
                    "200": {
                        "description": "Knowledge sources",
                        "schema": {"$ref": "#/definitions/common.ListResponse"}
                    },
                    "401": {
                        "description": "Missing or wrong cron secret",
                        "schema": {"$ref": "#/definitions/common.ErrorResponse"}
                    },
                    "500": {
                        "description": "Sources could not be loaded",
                        "schema": {"type": "object", "additionalProperties": true}
                    }
                }
            }
        },
        "/v1/cron/sync-knowledge-sources": {
            "get": {
                "security": [{"CronSecret": []}],
                "description": "Invoked by the external scheduler. Processes every due knowledge source sequentially and reports per-source results keyed by source name.",
                "produces": ["application/json"],
                "tags": ["Cron"],
                "summary": "Sync knowledge sources",
                "responses": {
                    "200": {
                        "description": "Run report",
                        "schema": {"$ref": "#/definitions/cron.SyncResponse"}
                    },
                    "401": {
                        "description": "Missing or wrong cron secret",
                        "schema": {"$ref": "#/definitions/common.ErrorResponse"}
                    },
                    "500": {
                        "description": "Run could not start",
                        "schema": {"$ref": "#/definitions/common.ErrorResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "common.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "unauthorized"}
            }
        },
        "common.ListResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "total": {"type": "integer"}
            }
        },
        "cron.SourceResult": {
            "type": "object",
            "properties": {
                "error_message": {"type": "string"},
                "errors": {"type": "integer", "example": 0},
                "processed": {"type": "integer", "example": 3},
                "skipped": {"type": "boolean", "example": false}
            }
        },
        "cron.SyncResponse": {
            "type": "object",
            "properties": {
                "finished_at": {"type": "string"},
                "results": {
                    "type": "object",
                    "additionalProperties": {"$ref": "#/definitions/cron.SourceResult"}
                },
                "run_id": {"type": "string", "example": "5b0e7c1e-8a9d-4c55-9a37-0d1d8e7e2f10"},
                "started_at": {"type": "string"},
                "success": {"type": "boolean", "example": true}
            }
        }
    },
    "securityDefinitions": {
        "CronSecret": {
            "description": "Type \"Bearer\" followed by a space and the CRON_SECRET value.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "ClientPulse Ingestion API",
	Description:      "Scheduler entry point for the client-intelligence ingestion pipeline.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
