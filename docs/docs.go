// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/main.go
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
                "tags": ["system"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}
            }
        },
        "/auth/sign-up": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign up",
                "parameters": [{"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.operatorCredentials"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "integer"}}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/auth/sign-in": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in",
                "parameters": [{"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.operatorCredentials"}}],
                "responses": {
                    "200": {"description": "token", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/devices": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["devices"],
                "summary": "List devices",
                "responses": {
                    "200": {"description": "count, devices", "schema": {"type": "object", "additionalProperties": true}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["devices"],
                "summary": "Register device",
                "parameters": [{"description": "Device", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.RegisterDeviceRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Device"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/devices/{serial}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["devices"],
                "summary": "Remove device",
                "parameters": [{"type": "string", "description": "Device serial", "name": "serial", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/devices/{serial}/doze": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Reads both doze types from the device and stores the snapshot.",
                "produces": ["application/json"],
                "tags": ["doze"],
                "summary": "Get doze status",
                "parameters": [{"type": "string", "description": "Device serial", "name": "serial", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.StatusSnapshot"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/devices/{serial}/doze/snapshot": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["doze"],
                "summary": "Get last doze snapshot",
                "parameters": [{"type": "string", "description": "Device serial", "name": "serial", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.StatusSnapshot"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/devices/{serial}/doze/{type}/enter": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Unplugs the power source, forces the given idle type and verifies the device reports IDLE. Retried up to the configured number of attempts.",
                "produces": ["application/json"],
                "tags": ["doze"],
                "summary": "Enter doze mode",
                "parameters": [
                    {"type": "string", "description": "Device serial", "name": "serial", "in": "path", "required": true},
                    {"enum": ["deep", "light"], "type": "string", "description": "Doze type", "name": "type", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "status, serial, doze_type, snapshot", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "device did not reach IDLE", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "502": {"description": "command channel failure", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/devices/{serial}/doze/{type}/leave": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Resets the power source, disables idle and verifies the device reports ACTIVE.",
                "produces": ["application/json"],
                "tags": ["doze"],
                "summary": "Leave doze mode",
                "parameters": [
                    {"type": "string", "description": "Device serial", "name": "serial", "in": "path", "required": true},
                    {"enum": ["deep", "light"], "type": "string", "description": "Doze type", "name": "type", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/logs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Filter logs by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). If 'to' is date-only, it is treated as end-of-day inclusive.",
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "List doze events",
                "parameters": [
                    {"type": "string", "description": "Start of range", "name": "from", "in": "query"},
                    {"type": "string", "description": "End of range", "name": "to", "in": "query"},
                    {"enum": ["ENTER", "LEAVE", "VERIFY_FAILED", "TRANSPORT_ERROR"], "type": "string", "description": "Event type", "name": "type", "in": "query"},
                    {"type": "string", "description": "Device serial", "name": "serial", "in": "query"},
                    {"enum": ["DEEP", "LIGHT"], "type": "string", "description": "Doze type", "name": "doze_type", "in": "query"},
                    {"type": "integer", "description": "Newest N events (max 1000)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "count, events", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/ws": {
            "get": {
                "description": "Upgrades to WebSocket and pushes {\"type\":\"status\",\"data\":StatusSnapshot} every interval.",
                "tags": ["doze"],
                "summary": "Stream doze status",
                "parameters": [
                    {"type": "string", "description": "Device serial", "name": "serial", "in": "query", "required": true},
                    {"type": "string", "description": "Push interval, e.g. 2s (max 10s)", "name": "interval", "in": "query"},
                    {"type": "integer", "description": "Push interval in milliseconds", "name": "interval_ms", "in": "query"},
                    {"type": "boolean", "description": "Send the stored snapshot", "name": "snapshot", "in": "query"},
                    {"type": "boolean", "description": "Push only when a doze state changes", "name": "only_changes", "in": "query"},
                    {"type": "string", "description": "Operator token when the Authorization header cannot be set", "name": "access_token", "in": "query"}
                ],
                "responses": {
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                },
                "security": [{"BearerAuth": []}]
            }
        }
    },
    "definitions": {
        "handlers.operatorCredentials": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {"password": {"type": "string"}, "username": {"type": "string"}}
        },
        "handlers.RegisterDeviceRequest": {
            "type": "object",
            "required": ["serial"],
            "properties": {
                "name": {"type": "string", "example": "pixel-7"},
                "serial": {"type": "string", "example": "emulator-5554"},
                "transport": {"type": "string", "example": "adb"}
            }
        },
        "models.Device": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "name": {"type": "string"},
                "serial": {"type": "string"},
                "transport": {"type": "string"}
            }
        },
        "models.StatusSnapshot": {
            "type": "object",
            "properties": {
                "deep": {"type": "string"},
                "light": {"type": "string"},
                "observed_at": {"type": "string"},
                "serial": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "dozectl API",
	Description:      "Drives Android devices in and out of doze idle mode and records verified transitions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
