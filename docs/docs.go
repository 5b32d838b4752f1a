// Package docs registers the OpenAPI document served at /api/swagger.
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
            "get": {"tags": ["health"], "summary": "Dependency health", "responses": {"200": {"description": "OK"}, "503": {"description": "Degraded"}}}
        },
        "/users/register": {
            "post": {
                "tags": ["users"], "summary": "Register a user",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/domain.RegisterInput"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation failed"}}
            }
        },
        "/users/login": {
            "post": {
                "tags": ["users"], "summary": "Log in and receive a bearer token",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/domain.LoginInput"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}}
            }
        },
        "/users/current": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Get the authenticated user", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/profile": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["profile"], "summary": "Get current user's profile", "responses": {"200": {"description": "OK"}, "404": {"description": "No profile"}}},
            "post": {
                "security": [{"BearerAuth": []}], "tags": ["profile"], "summary": "Create or update current user's profile",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/domain.ProfileInput"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Validation failed"}}
            },
            "delete": {"security": [{"BearerAuth": []}], "tags": ["profile"], "summary": "Delete profile and user account", "responses": {"200": {"description": "OK"}, "500": {"description": "Server error"}}}
        },
        "/profile/all": {
            "get": {"tags": ["profile"], "summary": "List all profiles", "responses": {"200": {"description": "OK"}}}
        },
        "/profile/handle/{handle}": {
            "get": {
                "tags": ["profile"], "summary": "Get profile by handle",
                "parameters": [{"in": "path", "name": "handle", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "No profile"}}
            }
        },
        "/profile/user/{user_id}": {
            "get": {
                "tags": ["profile"], "summary": "Get profile by user id",
                "parameters": [{"in": "path", "name": "user_id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "No profile"}}
            }
        },
        "/profile/experience": {
            "post": {
                "security": [{"BearerAuth": []}], "tags": ["profile"], "summary": "Add an experience entry",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/domain.ExperienceInput"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Validation failed"}, "404": {"description": "No profile"}}
            }
        },
        "/profile/experience/{exp_id}": {
            "delete": {
                "security": [{"BearerAuth": []}], "tags": ["profile"], "summary": "Remove an experience entry",
                "parameters": [{"in": "path", "name": "exp_id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "No profile"}}
            }
        },
        "/profile/education": {
            "post": {
                "security": [{"BearerAuth": []}], "tags": ["profile"], "summary": "Add an education entry",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/domain.EducationInput"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Validation failed"}, "404": {"description": "No profile"}}
            }
        },
        "/profile/education/{edu_id}": {
            "delete": {
                "security": [{"BearerAuth": []}], "tags": ["profile"], "summary": "Remove an education entry",
                "parameters": [{"in": "path", "name": "edu_id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "No profile"}}
            }
        }
    },
    "definitions": {
        "domain.RegisterInput": {
            "type": "object",
            "required": ["name", "email", "password", "password2"],
            "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}, "password2": {"type": "string"}}
        },
        "domain.LoginInput": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "domain.ProfileInput": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "handle": {"type": "string"}, "company": {"type": "string"}, "website": {"type": "string"},
                "location": {"type": "string"}, "bio": {"type": "string"}, "status": {"type": "string"},
                "githubusername": {"type": "string"}, "skills": {"type": "string", "example": "go,sql,docker"},
                "youtube": {"type": "string"}, "twitter": {"type": "string"}, "facebook": {"type": "string"},
                "linkedin": {"type": "string"}, "instagram": {"type": "string"}
            }
        },
        "domain.ExperienceInput": {
            "type": "object",
            "required": ["title", "company", "from"],
            "properties": {
                "title": {"type": "string"}, "company": {"type": "string"}, "location": {"type": "string"},
                "from": {"type": "string", "example": "2020-01-31"}, "to": {"type": "string"},
                "current": {"type": "boolean"}, "description": {"type": "string"}
            }
        },
        "domain.EducationInput": {
            "type": "object",
            "required": ["school", "degree", "fieldofstudy", "from"],
            "properties": {
                "school": {"type": "string"}, "degree": {"type": "string"}, "fieldofstudy": {"type": "string"},
                "from": {"type": "string", "example": "2016-09-01"}, "to": {"type": "string"},
                "current": {"type": "boolean"}, "description": {"type": "string"}
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
	Host:             "localhost:5000",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Profile Backend API",
	Description:      "User accounts and developer profiles with experience and education.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
