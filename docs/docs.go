// Package docs は /swagger で配信する OpenAPI 定義。
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "Bearer": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"Bearer": []}],
    "paths": {
        "/members": {
            "get": {"summary": "List members (newest first)", "tags": ["members"],
                "parameters": [
                    {"name": "member_type", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}},
            "post": {"summary": "Register a member", "tags": ["members"],
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "INVALID_ARGUMENT"}}}
        },
        "/members/search": {
            "get": {"summary": "Search by contact or name", "tags": ["members"],
                "parameters": [{"name": "query", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK (empty query returns [])"}}}
        },
        "/members/{member_type}/{member_id}": {
            "get": {"summary": "Get a member", "tags": ["members"],
                "parameters": [
                    {"name": "member_type", "in": "path", "required": true, "type": "string"},
                    {"name": "member_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "NOT_FOUND"}}},
            "put": {"summary": "Partially update a member", "tags": ["members"],
                "parameters": [
                    {"name": "member_type", "in": "path", "required": true, "type": "string"},
                    {"name": "member_id", "in": "path", "required": true, "type": "string"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateMemberRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "NOT_FOUND"}}},
            "delete": {"summary": "Delete a member with memberships and attendance", "tags": ["members"],
                "parameters": [
                    {"name": "member_type", "in": "path", "required": true, "type": "string"},
                    {"name": "member_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"204": {"description": "Deleted"}, "404": {"description": "NOT_FOUND"}}}
        },
        "/subcommittees": {
            "get": {"summary": "Subcommittees with members in display order", "tags": ["subcommittees"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/subcommittees/members": {
            "post": {"summary": "Add a member to a subcommittee", "tags": ["subcommittees"],
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddMemberRequest"}}],
                "responses": {"201": {"description": "Created"}, "404": {"description": "NOT_FOUND"}, "409": {"description": "CAPACITY_EXCEEDED or DUPLICATE"}}}
        },
        "/subcommittees/{subcommittee_id}/members": {
            "get": {"summary": "Members of one subcommittee", "tags": ["subcommittees"],
                "parameters": [{"name": "subcommittee_id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/subcommittees/{subcommittee_id}/members/{member_id}": {
            "delete": {"summary": "Remove a member from a subcommittee", "tags": ["subcommittees"],
                "parameters": [
                    {"name": "subcommittee_id", "in": "path", "required": true, "type": "string"},
                    {"name": "member_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"204": {"description": "Removed"}, "404": {"description": "NOT_FOUND"}}}
        },
        "/conveners": {
            "get": {"summary": "Current conveners", "tags": ["subcommittees"], "responses": {"200": {"description": "OK"}}}
        },
        "/attendances": {
            "get": {"summary": "List attendance records", "tags": ["attendance"],
                "parameters": [
                    {"name": "context", "in": "query", "type": "string"},
                    {"name": "member_id", "in": "query", "type": "string"},
                    {"name": "on", "in": "query", "type": "string"},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"},
                    {"name": "sort", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}},
            "post": {"summary": "Mark attendance for today", "tags": ["attendance"],
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MarkRequest"}}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "DUPLICATE or CONFLICT"}}},
            "delete": {"summary": "Clear one attendance ledger", "tags": ["attendance"],
                "parameters": [
                    {"name": "context", "in": "query", "required": true, "type": "string"},
                    {"name": "confirm", "in": "query", "required": true, "type": "boolean"}
                ],
                "responses": {"200": {"description": "Count removed"}}}
        },
        "/attendances/batch": {
            "post": {"summary": "Mark attendance for several members", "tags": ["attendance"],
                "responses": {"200": {"description": "OK"}, "207": {"description": "Partially marked"}}}
        },
        "/attendances/today": {
            "get": {"summary": "Is the member marked today", "tags": ["attendance"],
                "parameters": [
                    {"name": "context", "in": "query", "required": true, "type": "string"},
                    {"name": "member_id", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}}
        },
        "/attendances/stats": {
            "get": {"summary": "Top attendees in a date range", "tags": ["attendance"],
                "parameters": [
                    {"name": "from", "in": "query", "required": true, "type": "string"},
                    {"name": "to", "in": "query", "required": true, "type": "string"},
                    {"name": "context", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}}
        },
        "/reports": {
            "get": {"summary": "Attendance report with amounts", "tags": ["reports"],
                "parameters": [{"name": "context", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/reports/export": {
            "get": {"summary": "Attendance report as CSV", "tags": ["reports"], "produces": ["text/csv"],
                "parameters": [{"name": "context", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/reports/totals": {
            "get": {"summary": "Dashboard totals", "tags": ["reports"], "responses": {"200": {"description": "OK"}}}
        },
        "/meetings": {
            "get": {"summary": "List meetings", "tags": ["meetings"], "responses": {"200": {"description": "OK"}}},
            "post": {"summary": "Create a meeting", "tags": ["meetings"], "responses": {"201": {"description": "Created"}}}
        },
        "/meetings/{meeting_id}": {
            "get": {"summary": "Get a meeting", "tags": ["meetings"],
                "parameters": [{"name": "meeting_id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}},
            "put": {"summary": "Update a meeting", "tags": ["meetings"],
                "parameters": [{"name": "meeting_id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}},
            "delete": {"summary": "Delete a meeting", "tags": ["meetings"],
                "parameters": [{"name": "meeting_id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}}}
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "required": ["member_type", "name", "electoral_area", "contact", "gender"],
            "properties": {
                "member_type": {"type": "string", "enum": ["AssemblyMember", "GovernmentAppointee"]},
                "name": {"type": "string"},
                "electoral_area": {"type": "string"},
                "contact": {"type": "string"},
                "gender": {"type": "string", "enum": ["Male", "Female"]},
                "is_convener": {"type": "boolean"}
            }
        },
        "UpdateMemberRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "electoral_area": {"type": "string"},
                "contact": {"type": "string"},
                "gender": {"type": "string"},
                "is_convener": {"type": "boolean"}
            }
        },
        "AddMemberRequest": {
            "type": "object",
            "required": ["subcommittee_name", "member_id", "member_type"],
            "properties": {
                "subcommittee_name": {"type": "string"},
                "member_id": {"type": "string"},
                "member_type": {"type": "string"}
            }
        },
        "MarkRequest": {
            "type": "object",
            "required": ["context", "member_id"],
            "properties": {
                "context": {"type": "string", "example": "subcommittee:travel"},
                "member_id": {"type": "string"},
                "is_convener_mark": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "KMA committee & attendance API",
	Description:      "Members, subcommittees, attendance ledgers and payment reports.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
