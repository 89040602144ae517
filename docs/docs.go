// Package docs регистрирует OpenAPI-описание HTTP API для /docs/*.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {"name": "MIT", "url": "https://opensource.org/licenses/MIT"},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/ai-strategy-chat": {
            "post": {
                "tags": ["Proxy"],
                "summary": "Strategy chat",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/strategychat.Request"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/strategychat.Response"}},
                    "500": {"description": "Error", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/text-to-speech": {
            "post": {
                "tags": ["Proxy"],
                "summary": "Text to speech",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/texttospeech.Request"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/texttospeech.Response"}},
                    "500": {"description": "Error", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/cancel-subscription": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Proxy"],
                "summary": "Cancel own subscription",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/cancelsubscription.Request"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/cancelsubscription.Response"}},
                    "500": {"description": "Error", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/create-demo-account": {
            "post": {
                "tags": ["Proxy"],
                "summary": "Provision the shared demo account",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/demoaccount.Response"}},
                    "500": {"description": "Error", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/delete-account": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Proxy"],
                "summary": "Delete own account",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.StatusResponse"}}
                }
            }
        },
        "/session": {
            "post": {
                "tags": ["Session"],
                "summary": "Create guest session",
                "produces": ["application/json"],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/guestsession.Credentials"}}}
            },
            "get": {
                "tags": ["Session"],
                "summary": "Session snapshot",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "header", "name": "X-Guest-Id", "type": "string", "required": true},
                    {"in": "header", "name": "X-Guest-Key", "type": "string", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/guestsession.Snapshot"}}}
            }
        },
        "/session/profile": {
            "patch": {
                "tags": ["Session"],
                "summary": "Merge guest profile fields",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "header", "name": "X-Guest-Id", "type": "string", "required": true},
                    {"in": "header", "name": "X-Guest-Key", "type": "string", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.ProfilePatch"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/guestsession.Snapshot"}}}
            }
        },
        "/session/trial": {
            "post": {
                "tags": ["Session"],
                "summary": "Start the trial window once",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "header", "name": "X-Guest-Id", "type": "string", "required": true},
                    {"in": "header", "name": "X-Guest-Key", "type": "string", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/guestsession.Snapshot"}}}
            }
        },
        "/session/notices": {
            "get": {
                "tags": ["Session"],
                "summary": "Due trial notices",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "header", "name": "X-Guest-Id", "type": "string", "required": true},
                    {"in": "header", "name": "X-Guest-Key", "type": "string", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Notice"}}}}
            }
        },
        "/session/sign-in": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Session"],
                "summary": "Guest to authenticated transition",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "header", "name": "X-Guest-Id", "type": "string", "required": true},
                    {"in": "header", "name": "X-Guest-Key", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/guestsession.Snapshot"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/session/sign-out": {
            "post": {
                "tags": ["Session"],
                "summary": "Reset to a fresh guest",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/guestsession.Credentials"}}}
            }
        }
    },
    "definitions": {
        "strategychat.Turn": {"type": "object", "properties": {"role": {"type": "string"}, "content": {"type": "string"}}},
        "strategychat.Request": {
            "type": "object",
            "required": ["message"],
            "properties": {
                "message": {"type": "string"},
                "userRole": {"type": "string", "example": "CEO"},
                "userObjective": {"type": "string"},
                "conversationHistory": {"type": "array", "items": {"$ref": "#/definitions/strategychat.Turn"}}
            }
        },
        "strategychat.Response": {"type": "object", "properties": {"response": {"type": "string"}, "model": {"type": "string", "example": "gpt-4o-mini"}}},
        "texttospeech.Request": {
            "type": "object",
            "required": ["text"],
            "properties": {"text": {"type": "string"}, "voice": {"type": "string", "example": "Aria"}, "model": {"type": "string", "example": "eleven_multilingual_v2"}}
        },
        "texttospeech.Response": {"type": "object", "properties": {"audioContent": {"type": "string"}, "voice": {"type": "string"}, "model": {"type": "string"}}},
        "cancelsubscription.Request": {"type": "object", "required": ["subscriptionId"], "properties": {"subscriptionId": {"type": "string"}}},
        "cancelsubscription.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "subscription": {"type": "object", "properties": {"id": {"type": "string"}, "status": {"type": "string"}, "canceled_at": {"type": "integer"}}}
            }
        },
        "demoaccount.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "credentials": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
                "user_id": {"type": "string"}
            }
        },
        "response.ErrorResponse": {"type": "object", "properties": {"error": {"type": "string"}}},
        "response.StatusResponse": {"type": "object", "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}}},
        "models.ProfilePatch": {"type": "object", "properties": {"tier": {"type": "string"}, "role": {"type": "string"}, "objective": {"type": "string"}}},
        "models.Notice": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["welcome", "day_2_reminder", "final_day_warning"]},
                "guest_id": {"type": "string"},
                "days_remaining": {"type": "integer"},
                "title": {"type": "string"},
                "message": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "guestsession.Snapshot": {
            "type": "object",
            "properties": {
                "identity": {"type": "object"},
                "profile": {"$ref": "#/definitions/models.ProfilePatch"},
                "trial": {"type": "object", "properties": {"start": {"type": "string", "format": "date-time"}}},
                "trial_ends_at": {"type": "string", "format": "date-time"},
                "access": {
                    "type": "object",
                    "properties": {
                        "state": {"type": "string", "enum": ["trial_active", "trial_expired", "authenticated"]},
                        "expired": {"type": "boolean"},
                        "days_remaining": {"type": "integer"},
                        "requires_onboarding": {"type": "boolean"},
                        "demo_mode": {"type": "boolean"}
                    }
                }
            }
        },
        "guestsession.Credentials": {
            "type": "object",
            "properties": {
                "guest_id": {"type": "string"},
                "guest_key": {"type": "string"},
                "session": {"$ref": "#/definitions/guestsession.Snapshot"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"description": "Type \"Bearer\" followed by a space and the access token.", "type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo содержит экспортируемую информацию Swagger, чтобы клиенты могли её изменять.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Executive Coach API",
	Description:      "Proxies to AI, speech, billing and identity providers plus the guest trial session API.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
