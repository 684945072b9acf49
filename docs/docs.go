// Package docs 注册 swagger 文档，内容与 controller 注解保持一致。
// 重新生成: swag init -g main.go -o docs
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
        "/api/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["系统"],
                "summary": "健康检查",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/api/events": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["学习事件"],
                "summary": "查询学习事件",
                "parameters": [
                    {"enum": ["question", "note", "voice_interaction"], "type": "string", "name": "type", "in": "query"},
                    {"type": "string", "name": "subject", "in": "query"},
                    {"type": "string", "name": "fromDate", "in": "query"},
                    {"type": "string", "name": "toDate", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["学习事件"],
                "summary": "记录学习事件",
                "parameters": [
                    {"description": "学习事件", "name": "event", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controller.CreateEventRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/util.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/util.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["学习事件"],
                "summary": "删除学习事件",
                "parameters": [{"type": "string", "name": "id", "in": "query", "required": true}],
                "responses": {"501": {"description": "Not Implemented", "schema": {"$ref": "#/definitions/util.Response"}}}
            }
        },
        "/api/events/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["学习事件"],
                "summary": "学习事件统计",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            }
        },
        "/api/analytics": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["学习分析"],
                "summary": "个性化辅导分析",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}},
                    "404": {"description": "No learning data available", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/api/learning/analytics": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["学习分析"],
                "summary": "个性化辅导分析",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}},
                    "404": {"description": "No learning data available", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["学习事件"],
                "summary": "记录学习事件 (旧接口)",
                "parameters": [
                    {"description": "学习事件", "name": "event", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controller.CreateEventRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            }
        },
        "/api/chat/messages": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["聊天室"],
                "summary": "获取聊天室消息",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["聊天室"],
                "summary": "发送聊天室消息",
                "parameters": [
                    {"description": "消息", "name": "message", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controller.PostMessageRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/api/chat/ws": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["聊天室"],
                "summary": "订阅聊天室",
                "parameters": [{"type": "string", "name": "token", "in": "query"}],
                "responses": {}
            }
        },
        "/api/ai/enhance-notes": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["AI"],
                "summary": "AI 润色笔记",
                "parameters": [
                    {"description": "笔记与标签", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controller.EnhanceNotesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        }
    },
    "definitions": {
        "controller.CreateEventRequest": {
            "type": "object",
            "properties": {
                "content": {"type": "string", "example": "F=ma"},
                "subject": {"type": "string", "example": "physics"},
                "timestamp": {"type": "string"},
                "type": {"type": "string", "example": "note"}
            }
        },
        "controller.PostMessageRequest": {
            "type": "object",
            "properties": {
                "content": {"type": "string"},
                "type": {"type": "string", "example": "text"},
                "userImage": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "controller.EnhanceNotesRequest": {
            "type": "object",
            "properties": {
                "content": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}}
            }
        },
        "util.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {},
                "message": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
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
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Tutor 后端 API",
	Description:      "学习事件记录、学习分析、聊天室与 AI 笔记润色服务。",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
