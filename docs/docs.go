// Package docs holds the swagger template served at /swagger.
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
                "tags": ["系统"],
                "summary": "健康检查",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/learning-paths/{id}": {
            "get": {
                "tags": ["学习路径"],
                "summary": "获取学习路径课程树",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "学习路径ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/util.Response"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/learning-paths/{id}/navigator": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["学习路径"],
                "summary": "打开学习路径（定位到续学位置）",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "学习路径ID", "name": "id", "in": "path", "required": true},
                    {"type": "boolean", "description": "窄屏视口", "name": "narrow", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/learning-paths/{id}/navigator/{action}": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "action: introduction, final-test, advance, complete, sidebar。complete 保存失败时返回 503 与未改变的导航状态",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["学习路径导航"],
                "summary": "导航操作",
                "parameters": [
                    {"type": "string", "description": "学习路径ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "操作", "name": "action", "in": "path", "required": true},
                    {"description": "视口与会话", "name": "body", "in": "body", "schema": {"$ref": "#/definitions/controller.ActionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/learning-paths/{id}/navigator/units/{unitId}": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["学习路径导航"],
                "summary": "选择单元",
                "parameters": [
                    {"type": "string", "description": "学习路径ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "单元ID", "name": "unitId", "in": "path", "required": true},
                    {"description": "视口与会话", "name": "body", "in": "body", "schema": {"$ref": "#/definitions/controller.ActionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/learning-paths/{id}/navigator/units/{unitId}/modules/{moduleId}": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["学习路径导航"],
                "summary": "选择模块",
                "parameters": [
                    {"type": "string", "description": "学习路径ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "单元ID", "name": "unitId", "in": "path", "required": true},
                    {"type": "string", "description": "模块ID", "name": "moduleId", "in": "path", "required": true},
                    {"description": "视口与会话", "name": "body", "in": "body", "schema": {"$ref": "#/definitions/controller.ActionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/learning-paths/{id}/navigator/units/{unitId}/test": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["学习路径导航"],
                "summary": "选择单元测试",
                "parameters": [
                    {"type": "string", "description": "学习路径ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "单元ID", "name": "unitId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/learning-paths/{id}/navigator/units/{unitId}/toggle": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["学习路径导航"],
                "summary": "展开/折叠单元",
                "parameters": [
                    {"type": "string", "description": "学习路径ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "单元ID", "name": "unitId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/learning-paths/{id}/progress": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["学习路径"],
                "summary": "获取学习进度",
                "parameters": [
                    {"type": "string", "description": "学习路径ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        }
    },
    "definitions": {
        "controller.ActionRequest": {
            "type": "object",
            "properties": {
                "narrow": {"type": "boolean"},
                "session": {"$ref": "#/definitions/progression.Snapshot"}
            }
        },
        "progression.Snapshot": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["introduction", "unit", "module", "unit_test", "final_test"]},
                "unitId": {"type": "string"},
                "moduleId": {"type": "string"},
                "expanded": {"type": "array", "items": {"type": "string"}},
                "narrow": {"type": "boolean"},
                "sidebarOpen": {"type": "boolean"}
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
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "LearnPath 后端 API",
	Description:      "学习路径进度引擎：课程树、续学定位与导航。",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
