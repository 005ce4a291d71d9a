package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Event Tracker API",
        "description": "Public event listing with per-user completion tracking",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Events", "description": "Public listing and exports"},
        {"name": "Me", "description": "Per-user completion tracking"},
        {"name": "Authentication", "description": "Accounts and sessions"},
        {"name": "Admin", "description": "Event management"},
        {"name": "System", "description": "Probes"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["System"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/HealthResponse"}}
                }
            }
        },
        "/events": {
            "get": {
                "tags": ["Events"],
                "summary": "List events",
                "parameters": [
                    {"$ref": "#/parameters/scope"},
                    {"$ref": "#/parameters/from"},
                    {"$ref": "#/parameters/to"},
                    {"$ref": "#/parameters/type"},
                    {"$ref": "#/parameters/limit"},
                    {"$ref": "#/parameters/cursor"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/EventListResponse"}},
                    "400": {"description": "Invalid query", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/events/export": {
            "get": {
                "tags": ["Events"],
                "summary": "Export the filtered listing",
                "produces": ["text/csv", "application/pdf", "text/calendar"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "ics"]},
                    {"$ref": "#/parameters/scope"},
                    {"$ref": "#/parameters/from"},
                    {"$ref": "#/parameters/to"},
                    {"$ref": "#/parameters/type"}
                ],
                "responses": {
                    "200": {"description": "Attachment", "schema": {"type": "file"}},
                    "400": {"description": "Invalid query", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/me": {
            "get": {
                "tags": ["Me"],
                "summary": "Current user",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MeResponse"}},
                    "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/me/events": {
            "get": {
                "tags": ["Me"],
                "summary": "List events with completion state",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"$ref": "#/parameters/scope"},
                    {"$ref": "#/parameters/from"},
                    {"$ref": "#/parameters/to"},
                    {"$ref": "#/parameters/type"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["todo", "done", "all"]},
                    {"$ref": "#/parameters/limit"},
                    {"$ref": "#/parameters/cursor"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TrackedEventListResponse"}},
                    "400": {"description": "Invalid query", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/me/toggle": {
            "post": {
                "tags": ["Me"],
                "summary": "Toggle completion of an event",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object", "properties": {"eventId": {"type": "string"}}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"completed": {"type": "array", "items": {"type": "string"}}}}},
                    "404": {"description": "Unknown event", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register account",
                "parameters": [{"$ref": "#/parameters/credentials"}],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object", "properties": {"ok": {"type": "boolean"}, "role": {"type": "string"}}}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "409": {"description": "Username taken", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [{"$ref": "#/parameters/credentials"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Logout current session",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"ok": {"type": "boolean"}}}}
                }
            }
        },
        "/admin/events": {
            "post": {
                "tags": ["Admin"],
                "summary": "Create event",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EventInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object", "properties": {"event": {"$ref": "#/definitions/Event"}}}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "403": {"description": "Not an admin", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/admin/events/{id}": {
            "patch": {
                "tags": ["Admin"],
                "summary": "Update event",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EventInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"event": {"$ref": "#/definitions/Event"}}}},
                    "404": {"description": "Unknown event", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "delete": {
                "tags": ["Admin"],
                "summary": "Delete event",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"removed": {"$ref": "#/definitions/Event"}}}},
                    "404": {"description": "Unknown event", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        }
    },
    "parameters": {
        "scope": {"name": "scope", "in": "query", "type": "string", "enum": ["upcoming", "past", "all"], "default": "upcoming"},
        "from": {"name": "from", "in": "query", "type": "string", "format": "date"},
        "to": {"name": "to", "in": "query", "type": "string", "format": "date"},
        "type": {"name": "type", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"},
        "limit": {"name": "limit", "in": "query", "type": "integer", "minimum": 1, "maximum": 100, "default": 25},
        "cursor": {"name": "cursor", "in": "query", "type": "string"},
        "credentials": {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Credentials"}}
    },
    "definitions": {
        "Event": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "type": {"type": "string"},
                "dueDate": {"type": "string", "format": "date"}
            }
        },
        "EventInput": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "type": {"type": "string"},
                "dueDate": {"type": "string", "format": "date"}
            }
        },
        "TrackedEvent": {
            "allOf": [
                {"$ref": "#/definitions/Event"},
                {
                    "type": "object",
                    "properties": {
                        "isCompleted": {"type": "boolean"},
                        "completedAt": {"type": "string", "format": "date-time"}
                    }
                }
            ]
        },
        "ListMeta": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "scope": {"type": "string"},
                "limit": {"type": "integer"}
            }
        },
        "EventListResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/Event"}},
                "nextCursor": {"type": "string"},
                "meta": {"$ref": "#/definitions/ListMeta"}
            }
        },
        "TrackedEventListResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/TrackedEvent"}},
                "nextCursor": {"type": "string"},
                "meta": {"$ref": "#/definitions/ListMeta"}
            }
        },
        "Credentials": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string", "minLength": 6}
            }
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "username": {"type": "string"},
                "role": {"type": "string"},
                "expiresAt": {"type": "string", "format": "date-time"}
            }
        },
        "MeResponse": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "role": {"type": "string"},
                "completed": {"type": "array", "items": {"type": "string"}}
            }
        },
        "HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"}
            }
        },
        "ErrorBody": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "string"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
