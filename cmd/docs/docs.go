// Package docs holds the OpenAPI description served by the swagger UI.
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
        "/auth/login": {
            "post": {
                "description": "Authenticates the admin and returns a JWT token for the management endpoints.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Admin login",
                "parameters": [
                    {"description": "Login Credentials", "name": "login", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.LoginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/orders": {
            "get": {
                "description": "Lists synced orders ordered by id, one page at a time.",
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "List orders",
                "parameters": [
                    {"type": "integer", "default": 20, "description": "Page size (1-100)", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Token from the previous page", "name": "pageToken", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ListOrdersResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/orders/{id}": {
            "get": {
                "description": "Retrieves one order by its spreadsheet id.",
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Get an order",
                "parameters": [
                    {"type": "integer", "description": "Order id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.OrderResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/recipients": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["recipients"],
                "summary": "List notification recipients",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.RecipientResponse"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "The external id is the recipient's Telegram chat id.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["recipients"],
                "summary": "Register a notification recipient",
                "parameters": [
                    {"description": "Recipient", "name": "recipient", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateRecipientRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.RecipientResponse"}},
                    "409": {"description": "External id already registered", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/recipients/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Also removes the recipient's notification history.",
                "tags": ["recipients"],
                "summary": "Delete a notification recipient",
                "parameters": [
                    {"type": "integer", "description": "Recipient id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/jobs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["jobs"],
                "summary": "List jobs",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.JobListResponse"}}
                }
            }
        },
        "/jobs/{name}/run": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Runs the job synchronously, plus its follow-up job if configured, and returns its result.",
                "produces": ["application/json"],
                "tags": ["jobs"],
                "summary": "Run a job now",
                "parameters": [
                    {"enum": ["reconcile_orders", "send_notifications"], "type": "string", "description": "Job name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.JobRunResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "Job already running", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.CreateRecipientRequest": {
            "type": "object",
            "required": ["externalID"],
            "properties": {
                "externalID": {"type": "string", "maxLength": 64},
                "name": {"type": "string", "maxLength": 255}
            }
        },
        "dto.JobListResponse": {
            "type": "object",
            "properties": {"jobs": {"type": "array", "items": {"type": "string"}}}
        },
        "dto.JobRunResponse": {
            "type": "object",
            "properties": {
                "duration": {"type": "integer"},
                "job": {"type": "string"},
                "result": {},
                "startedAt": {"type": "string"}
            }
        },
        "dto.ListOrdersResponse": {
            "type": "object",
            "properties": {
                "nextToken": {"type": "string"},
                "orders": {"type": "array", "items": {"$ref": "#/definitions/dto.OrderResponse"}}
            }
        },
        "dto.LoginRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "dto.LoginResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}}
        },
        "dto.OrderResponse": {
            "type": "object",
            "properties": {
                "costSource": {"type": "number"},
                "costTarget": {"type": "number"},
                "createdAt": {"type": "string"},
                "deliveryDate": {"type": "string"},
                "id": {"type": "integer"},
                "orderID": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "dto.RecipientResponse": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "externalID": {"type": "string"},
                "id": {"type": "integer"},
                "name": {"type": "string"}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Orders Sync API",
	Description:      "Read API for synced spreadsheet orders and admin endpoints for reminders and jobs.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
