// Package docs holds the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o cmd/api/docs
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
        "/api/difficulties": {
            "get": {
                "produces": ["application/json"],
                "tags": ["quiz"],
                "summary": "List difficulties",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.DifficultiesResponse"}}
                }
            }
        },
        "/api/sessions": {
            "post": {
                "description": "Creates a new session in the SETUP phase",
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Create a quiz session",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.SessionResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/api/sessions/{id}": {
            "get": {
                "description": "Returns the phase-specific view of a session. Poll it while LOADING.",
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Get a quiz session",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ValidationErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/api/sessions/{id}/answer": {
            "post": {
                "description": "Records the selected option. The response reveals the correct answer and explanation.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Answer the current question",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"description": "Selected option", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.AnswerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ValidationErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/api/sessions/{id}/next": {
            "post": {
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Go to the next question",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/api/sessions/{id}/reset": {
            "post": {
                "description": "Play again after FINISHED or retry after ERROR",
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Return to setup",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/api/sessions/{id}/results": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Get the score and review",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ResultsResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/api/sessions/{id}/start": {
            "post": {
                "description": "Freezes topic and difficulty and starts generation in the background",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Start generating a quiz",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"description": "Quiz settings", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.StartQuizRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/dto.SessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ValidationErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/dto.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Difficulty": {
            "type": "string",
            "enum": ["Easy", "Medium", "Hard", "Expert"]
        },
        "domain.Phase": {
            "type": "string",
            "enum": ["SETUP", "LOADING", "PLAYING", "FINISHED", "ERROR"]
        },
        "domain.QuizSettings": {
            "type": "object",
            "properties": {
                "difficulty": {"$ref": "#/definitions/domain.Difficulty"},
                "topic": {"type": "string"}
            }
        },
        "domain.ValidationError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "field": {"type": "string"},
                "message": {"type": "string"},
                "value": {}
            }
        },
        "dto.AnswerFeedback": {
            "type": "object",
            "properties": {
                "correct_answer_index": {"type": "integer"},
                "explanation": {"type": "string"},
                "is_correct": {"type": "boolean"},
                "selected_option_index": {"type": "integer"},
                "time_taken": {"type": "number"}
            }
        },
        "dto.AnswerRequest": {
            "type": "object",
            "properties": {
                "option_index": {"type": "integer", "maximum": 3, "minimum": 0}
            }
        },
        "dto.DifficultiesResponse": {
            "type": "object",
            "properties": {
                "default": {"$ref": "#/definitions/domain.Difficulty"},
                "difficulties": {"type": "array", "items": {"$ref": "#/definitions/domain.Difficulty"}}
            }
        },
        "dto.ErrorView": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "dto.FinishedView": {
            "type": "object",
            "properties": {
                "correct_count": {"type": "integer"},
                "label": {"type": "string"},
                "score_percentage": {"type": "integer"},
                "total_questions": {"type": "integer"}
            }
        },
        "dto.HealthResponse": {
            "type": "object",
            "properties": {
                "cache": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "dto.LoadingView": {
            "type": "object",
            "properties": {
                "tip": {"type": "string"},
                "topic": {"type": "string"}
            }
        },
        "dto.PlayingView": {
            "type": "object",
            "properties": {
                "answered": {"type": "boolean"},
                "feedback": {"$ref": "#/definitions/dto.AnswerFeedback"},
                "is_last_question": {"type": "boolean"},
                "progress_percent": {"type": "number"},
                "question": {"$ref": "#/definitions/dto.QuestionView"},
                "question_number": {"type": "integer"},
                "total_questions": {"type": "integer"}
            }
        },
        "dto.QuestionView": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "options": {"type": "array", "items": {"type": "string"}},
                "question_text": {"type": "string"}
            }
        },
        "dto.ResultsResponse": {
            "type": "object",
            "properties": {
                "correct_count": {"type": "integer"},
                "difficulty": {"$ref": "#/definitions/domain.Difficulty"},
                "label": {"type": "string"},
                "review": {"type": "array", "items": {"$ref": "#/definitions/dto.ReviewItemResponse"}},
                "score_percentage": {"type": "integer"},
                "session_id": {"type": "string"},
                "topic": {"type": "string"},
                "total_questions": {"type": "integer"}
            }
        },
        "dto.ReviewItemResponse": {
            "type": "object",
            "properties": {
                "correct_answer_index": {"type": "integer"},
                "explanation": {"type": "string"},
                "is_correct": {"type": "boolean"},
                "options": {"type": "array", "items": {"type": "string"}},
                "question_id": {"type": "integer"},
                "question_text": {"type": "string"},
                "selected_option_index": {"type": "integer"},
                "time_taken": {"type": "number"}
            }
        },
        "dto.SessionResponse": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "error": {"$ref": "#/definitions/dto.ErrorView"},
                "finished": {"$ref": "#/definitions/dto.FinishedView"},
                "id": {"type": "string"},
                "loading": {"$ref": "#/definitions/dto.LoadingView"},
                "playing": {"$ref": "#/definitions/dto.PlayingView"},
                "settings": {"$ref": "#/definitions/domain.QuizSettings"},
                "state": {"$ref": "#/definitions/domain.Phase"},
                "updated_at": {"type": "string"}
            }
        },
        "dto.StartQuizRequest": {
            "description": "Topic and difficulty of the quiz to generate",
            "type": "object",
            "properties": {
                "difficulty": {"type": "string"},
                "topic": {"type": "string", "maxLength": 200}
            }
        },
        "middleware.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "middleware.ValidationErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "errors": {"type": "array", "items": {"$ref": "#/definitions/domain.ValidationError"}},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8090",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Quiz Master API",
	Description:      "AI generated trivia quizzes, one session at a time.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
