// Package docs registers the OpenAPI description of the Connect endpoints
// with swag so it can be served by http-swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "consumes": ["application/json"],
    "produces": ["application/json"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/dangidongi.v1.SettlementService/Calculate": {
            "post": {
                "tags": ["settlement"],
                "summary": "Compute a hub-based settlement",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CalculateRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CalculateResponse"}},
                    "400": {"description": "invalid_argument"}
                }
            }
        },
        "/dangidongi.v1.SettlementService/SaveCalculation": {
            "post": {
                "tags": ["settlement"],
                "summary": "Save a calculation for the signed-in user",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/SaveCalculationRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CalculationResponse"}},
                    "401": {"description": "unauthenticated"}
                }
            }
        },
        "/dangidongi.v1.SettlementService/GetCalculation": {
            "post": {
                "tags": ["settlement"],
                "summary": "Fetch a saved calculation by id",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/IDRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CalculationResponse"}},
                    "404": {"description": "not_found"}
                }
            }
        },
        "/dangidongi.v1.SettlementService/ListCalculations": {
            "post": {
                "tags": ["settlement"],
                "summary": "List the signed-in user's calculations",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ListCalculationsResponse"}},
                    "401": {"description": "unauthenticated"}
                }
            }
        },
        "/dangidongi.v1.SettlementService/DeleteCalculation": {
            "post": {
                "tags": ["settlement"],
                "summary": "Delete one of the signed-in user's calculations",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/IDRequest"}}],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "permission_denied"},
                    "404": {"description": "not_found"}
                }
            }
        },
        "/dangidongi.v1.AuthService/Register": {
            "post": {
                "tags": ["auth"],
                "summary": "Create an account",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TokenResponse"}},
                    "409": {"description": "already_exists"}
                }
            }
        },
        "/dangidongi.v1.AuthService/Login": {
            "post": {
                "tags": ["auth"],
                "summary": "Sign in with email and password",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TokenResponse"}},
                    "401": {"description": "unauthenticated"}
                }
            }
        },
        "/dangidongi.v1.AuthService/GetCurrentUser": {
            "post": {
                "tags": ["auth"],
                "summary": "Return the signed-in user",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"user": {"$ref": "#/definitions/User"}}}},
                    "401": {"description": "unauthenticated"}
                }
            }
        }
    },
    "definitions": {
        "ExpenseRow": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "amount": {"type": "string", "example": "120.50"}}
        },
        "CalculateRequest": {
            "type": "object",
            "properties": {
                "total_people": {"type": "integer", "example": 4},
                "currency": {"type": "string", "enum": ["TOMAN", "EUR", "USD", "TRY"]},
                "locale": {"type": "string", "enum": ["en", "fa"]},
                "expenses": {"type": "array", "items": {"$ref": "#/definitions/ExpenseRow"}}
            }
        },
        "Balance": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "amount": {"type": "number"},
                "amount_formatted": {"type": "string"},
                "aggregate": {"type": "boolean"},
                "group_size": {"type": "integer"}
            }
        },
        "Transaction": {
            "type": "object",
            "properties": {
                "from": {"type": "string"},
                "to": {"type": "string"},
                "amount": {"type": "number"},
                "amount_formatted": {"type": "string"},
                "aggregate": {"type": "boolean"},
                "group_size": {"type": "integer"}
            }
        },
        "Settlement": {
            "type": "object",
            "properties": {
                "currency": {"type": "string"},
                "total_cost": {"type": "number"},
                "total_cost_formatted": {"type": "string"},
                "share_per_person": {"type": "number"},
                "share_per_person_formatted": {"type": "string"},
                "hub": {"type": "string"},
                "balances": {"type": "array", "items": {"$ref": "#/definitions/Balance"}},
                "transactions": {"type": "array", "items": {"$ref": "#/definitions/Transaction"}}
            }
        },
        "CalculateResponse": {
            "type": "object",
            "properties": {"settlement": {"$ref": "#/definitions/Settlement"}}
        },
        "Calculation": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "owner_id": {"type": "string"},
                "title": {"type": "string"},
                "total_people": {"type": "integer"},
                "currency": {"type": "string"},
                "locale": {"type": "string"},
                "expenses": {"type": "array", "items": {"type": "object", "properties": {"name": {"type": "string"}, "amount": {"type": "number"}}}},
                "created_at": {"type": "integer"},
                "settlement": {"$ref": "#/definitions/Settlement"}
            }
        },
        "SaveCalculationRequest": {
            "type": "object",
            "properties": {"title": {"type": "string"}, "input": {"$ref": "#/definitions/CalculateRequest"}}
        },
        "CalculationResponse": {
            "type": "object",
            "properties": {"calculation": {"$ref": "#/definitions/Calculation"}}
        },
        "ListCalculationsResponse": {
            "type": "object",
            "properties": {"calculations": {"type": "array", "items": {"$ref": "#/definitions/Calculation"}}}
        },
        "IDRequest": {
            "type": "object",
            "properties": {"id": {"type": "string"}}
        },
        "User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "display_name": {"type": "string"},
                "created_at": {"type": "integer"}
            }
        },
        "RegisterRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "display_name": {"type": "string"}, "password": {"type": "string"}}
        },
        "LoginRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "TokenResponse": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/User"},
                "token": {"type": "string"},
                "expires_at": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Dangi Dongi API",
	Description:      "Connect (JSON) endpoints for splitting shared expenses through a single hub.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
