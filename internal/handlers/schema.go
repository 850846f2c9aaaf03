package handlers

import (
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Request body schemas. They only check shapes: presence is enforced by
// strict mode.
var (
	createTaskSchema = jsonschema.MustCompileString("create_task.json", `{
		"type": "object",
		"properties": {
			"title": {"type": ["string", "null"]},
			"description": {"type": ["string", "null"]},
			"steps": {
				"type": ["array", "null"],
				"items": {"type": "string"}
			}
		}
	}`)

	updateTaskSchema = jsonschema.MustCompileString("update_task.json", `{
		"type": "object",
		"properties": {
			"title": {"type": ["string", "null"]},
			"description": {"type": ["string", "null"]}
		}
	}`)

	addStepSchema = jsonschema.MustCompileString("add_step.json", `{
		"type": "object",
		"properties": {
			"text": {"type": ["string", "null"]}
		}
	}`)
)
