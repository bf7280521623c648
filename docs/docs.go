// Package docs holds the generated OpenAPI description of the registry API.
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
		"/": {
			"get": {
				"tags": [
					"system"
				],
				"summary": "Service banner",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/health": {
			"get": {
				"tags": [
					"system"
				],
				"summary": "Database connectivity check",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/auth/register": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Create an account",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/auth/login": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Sign in",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/auth/logout": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Clear the session cookie",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/auth/verify": {
			"get": {
				"tags": [
					"auth"
				],
				"summary": "Describe the current session",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/auth/change-password": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Change the password of the current user",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"401": {
						"description": "Unauthorized"
					},
					"422": {
						"description": "Unprocessable Entity"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/auth/password/forgot": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Issue a password reset token",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/auth/password/reset": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Set a new password with a reset token",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/clubs": {
			"get": {
				"tags": [
					"clubs"
				],
				"summary": "List clubs ordered by name",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"post": {
				"tags": [
					"clubs"
				],
				"summary": "Create a club",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/clubs/{slug}": {
			"get": {
				"tags": [
					"clubs"
				],
				"summary": "Club profile with head coach and player count",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "slug",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/clubs/{slug}/players": {
			"get": {
				"tags": [
					"clubs"
				],
				"summary": "Players of a club",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "slug",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/clubs/{id}": {
			"put": {
				"tags": [
					"clubs"
				],
				"summary": "Update a club",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"clubs"
				],
				"summary": "Delete a club",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/clubs/{id}/logo": {
			"post": {
				"tags": [
					"clubs"
				],
				"summary": "Upload a club logo",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"type": "file",
						"name": "file",
						"in": "formData",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"multipart/form-data"
				]
			}
		},
		"/players": {
			"get": {
				"tags": [
					"players"
				],
				"summary": "List players",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"post": {
				"tags": [
					"players"
				],
				"summary": "Register a player",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/players/gender/{gender}": {
			"get": {
				"tags": [
					"players"
				],
				"summary": "Players of one gender",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "gender",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/players/{slug}": {
			"get": {
				"tags": [
					"players"
				],
				"summary": "Player profile with club and current rankings",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "slug",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/players/{slug}/stats": {
			"get": {
				"tags": [
					"players"
				],
				"summary": "Career statistics",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "slug",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/players/{slug}/match-history": {
			"get": {
				"tags": [
					"players"
				],
				"summary": "Last ten matches",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "slug",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/players/{slug}/tournament-history": {
			"get": {
				"tags": [
					"players"
				],
				"summary": "Tournament results",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "slug",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/players/{id}": {
			"put": {
				"tags": [
					"players"
				],
				"summary": "Update a player",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"players"
				],
				"summary": "Delete a player",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/players/{id}/photo": {
			"post": {
				"tags": [
					"players"
				],
				"summary": "Upload a player photo",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"type": "file",
						"name": "file",
						"in": "formData",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"multipart/form-data"
				]
			}
		},
		"/coaches": {
			"get": {
				"tags": [
					"coaches"
				],
				"summary": "List coaches",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"post": {
				"tags": [
					"coaches"
				],
				"summary": "Create a coach",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/coaches/{slug}": {
			"get": {
				"tags": [
					"coaches"
				],
				"summary": "Coach profile",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "slug",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/coaches/{slug}/stats": {
			"get": {
				"tags": [
					"coaches"
				],
				"summary": "Tournament participation of a coach",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "Not Found"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "slug",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/coaches/{id}": {
			"put": {
				"tags": [
					"coaches"
				],
				"summary": "Update a coach",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"coaches"
				],
				"summary": "Delete a coach",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/officials/{kind}": {
			"get": {
				"tags": [
					"officials"
				],
				"summary": "List umpires or referees",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "kind",
						"in": "path",
						"required": true
					}
				]
			},
			"post": {
				"tags": [
					"officials"
				],
				"summary": "Create an umpire or referee",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "kind",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/officials/{kind}/{slug}": {
			"get": {
				"tags": [
					"officials"
				],
				"summary": "Official profile",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "kind",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"name": "slug",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/officials/{kind}/{id}": {
			"put": {
				"tags": [
					"officials"
				],
				"summary": "Update an official",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "kind",
						"in": "path",
						"required": true
					},
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"officials"
				],
				"summary": "Delete an official",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "kind",
						"in": "path",
						"required": true
					},
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/officials/umpires/{slug}/stats": {
			"get": {
				"tags": [
					"officials"
				],
				"summary": "Matches officiated by an umpire",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "slug",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/tournaments": {
			"get": {
				"tags": [
					"tournaments"
				],
				"summary": "List tournaments, newest first",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"post": {
				"tags": [
					"tournaments"
				],
				"summary": "Create a tournament",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/tournaments/search": {
			"get": {
				"tags": [
					"tournaments"
				],
				"summary": "Search tournaments by name, venue city or venue name",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/tournaments/winners": {
			"get": {
				"tags": [
					"tournaments"
				],
				"summary": "Podiums of every tournament",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/tournaments/{slug}": {
			"get": {
				"tags": [
					"tournaments"
				],
				"summary": "Tournament with venue, events, courts, schedule, entries and winners",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "slug",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/tournaments/{slug}/matches": {
			"get": {
				"tags": [
					"tournaments"
				],
				"summary": "Matches played in a tournament",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "slug",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/tournaments/{slug}/players": {
			"get": {
				"tags": [
					"tournaments"
				],
				"summary": "Tournament lineups",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "slug",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/tournaments/{slug}/stats": {
			"get": {
				"tags": [
					"tournaments"
				],
				"summary": "Match totals and leaderboards of a tournament",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "Not Found"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "slug",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/tournaments/{slug}/standings": {
			"get": {
				"tags": [
					"tournaments"
				],
				"summary": "Group tables of a team tournament",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "Not Found"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "slug",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"name": "group_name",
						"in": "query"
					}
				]
			}
		},
		"/tournaments/{slug}/teams": {
			"get": {
				"tags": [
					"tournaments"
				],
				"summary": "Club rosters of a tournament",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "Not Found"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "slug",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/tournaments/{id}": {
			"put": {
				"tags": [
					"tournaments"
				],
				"summary": "Update a tournament",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"patch": {
				"tags": [
					"tournaments"
				],
				"summary": "Update a tournament",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"tournaments"
				],
				"summary": "Delete a tournament",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/tournaments/{id}/logo": {
			"post": {
				"tags": [
					"tournaments"
				],
				"summary": "Upload a tournament logo",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"type": "file",
						"name": "file",
						"in": "formData",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"multipart/form-data"
				]
			}
		},
		"/tournaments/{id}/entries": {
			"post": {
				"tags": [
					"tournaments"
				],
				"summary": "Register a player for an event",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/tournaments/{id}/entries/{entryID}": {
			"delete": {
				"tags": [
					"tournaments"
				],
				"summary": "Withdraw an entry",
				"produces": [
					"application/json"
				],
				"responses": {
					"204": {
						"description": "No Content"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"type": "integer",
						"name": "entryID",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/tournaments/{id}/lineups": {
			"post": {
				"tags": [
					"tournaments"
				],
				"summary": "Add a player to a lineup",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/tournaments/{id}/winners": {
			"put": {
				"tags": [
					"tournaments"
				],
				"summary": "Record the podium of a tournament",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/ws/tournaments/{slug}": {
			"get": {
				"tags": [
					"tournaments"
				],
				"summary": "Live feed of one tournament",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "slug",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/matches/ties": {
			"post": {
				"tags": [
					"matches"
				],
				"summary": "Create a club tie",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/matches/ties/{id}": {
			"get": {
				"tags": [
					"matches"
				],
				"summary": "A club tie with its individual matches",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/matches/individual": {
			"post": {
				"tags": [
					"matches"
				],
				"summary": "Record an individual match",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/matches/individual/{id}": {
			"get": {
				"tags": [
					"matches"
				],
				"summary": "An individual match",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/matches/category/{category}": {
			"get": {
				"tags": [
					"matches"
				],
				"summary": "Latest matches of a category",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "category",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/matches/recent": {
			"get": {
				"tags": [
					"matches"
				],
				"summary": "Latest decided matches",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/matches/stats/player/{id}": {
			"get": {
				"tags": [
					"matches"
				],
				"summary": "Match statistics of a player",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/matches/stats/head-to-head": {
			"get": {
				"tags": [
					"matches"
				],
				"summary": "Head-to-head record of two players",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/rankings/category/{category}": {
			"get": {
				"tags": [
					"rankings"
				],
				"summary": "Ranking table of one category",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "category",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/rankings/global": {
			"get": {
				"tags": [
					"rankings"
				],
				"summary": "Top ten of every category",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/rankings/player/{slug}": {
			"get": {
				"tags": [
					"rankings"
				],
				"summary": "Rankings of a player",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "slug",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/rankings/player/{slug}/history": {
			"get": {
				"tags": [
					"rankings"
				],
				"summary": "Daily rank history of a player",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "Not Found"
					},
					"422": {
						"description": "Unprocessable Entity"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "slug",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"name": "category",
						"in": "query"
					},
					{
						"type": "integer",
						"name": "days",
						"in": "query"
					}
				]
			}
		},
		"/rankings/tournament/{slug}": {
			"get": {
				"tags": [
					"rankings"
				],
				"summary": "Points awarded in a tournament",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "slug",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/rankings/top-players": {
			"get": {
				"tags": [
					"rankings"
				],
				"summary": "Players with the most points",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/rankings/calculate/{tournamentID}": {
			"post": {
				"tags": [
					"rankings"
				],
				"summary": "Award ranking points for one tournament",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "Not Found"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "tournamentID",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/rankings/recalculate": {
			"post": {
				"tags": [
					"rankings"
				],
				"summary": "Recalculate points for every tournament",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/admin/stats": {
			"get": {
				"tags": [
					"admin"
				],
				"summary": "Registry totals",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/admin/users": {
			"get": {
				"tags": [
					"admin"
				],
				"summary": "List accounts",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "role",
						"in": "query"
					},
					{
						"type": "integer",
						"name": "page",
						"in": "query"
					},
					{
						"type": "integer",
						"name": "limit",
						"in": "query"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/admin/users/{id}/role": {
			"patch": {
				"tags": [
					"admin"
				],
				"summary": "Change the role of an account",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/admin/users/{id}": {
			"delete": {
				"tags": [
					"admin"
				],
				"summary": "Delete an account",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
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
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Badminton 360 API",
	Description:      "Registry of the Georgian National Badminton Federation: clubs, players, officials, tournaments, matches and rankings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
