package validation

import "github.com/boxed-dev/remalt-sub004/pkg/models"

// One JSON Schema per node kind. A node's payload must validate against the
// schema registered for its declared kind; extra fields are tolerated so
// older clients can round-trip payloads they do not understand.
var kindSchemas = map[models.NodeKind]string{
	models.NodeKindText: `{
		"type": "object",
		"required": ["text"],
		"properties": {
			"text": {"type": "string"},
			"font_size": {"type": "integer", "minimum": 1},
			"alignment": {"type": "string", "enum": ["left", "center", "right"]}
		}
	}`,
	models.NodeKindPDF: `{
		"type": "object",
		"required": ["url"],
		"properties": {
			"url": {"type": "string", "minLength": 1},
			"file_name": {"type": "string"},
			"page_count": {"type": "integer", "minimum": 0},
			"parsed_text": {"type": "string"}
		}
	}`,
	models.NodeKindVoice: `{
		"type": "object",
		"required": ["audio_url"],
		"properties": {
			"audio_url": {"type": "string", "minLength": 1},
			"duration_seconds": {"type": "number", "minimum": 0},
			"transcript": {"type": "string"}
		}
	}`,
	models.NodeKindImage: `{
		"type": "object",
		"required": ["url"],
		"properties": {
			"url": {"type": "string", "minLength": 1},
			"alt": {"type": "string"},
			"caption": {"type": "string"},
			"analysis": {"type": "string"}
		}
	}`,
	models.NodeKindYouTube: `{
		"type": "object",
		"required": ["url", "video_id"],
		"properties": {
			"url": {"type": "string", "minLength": 1},
			"video_id": {"type": "string", "minLength": 1},
			"title": {"type": "string"},
			"thumbnail": {"type": "string"},
			"transcript": {"type": "string"}
		}
	}`,
	models.NodeKindInstagram: `{
		"type": "object",
		"required": ["url", "shortcode"],
		"properties": {
			"url": {"type": "string", "minLength": 1},
			"shortcode": {"type": "string", "minLength": 1},
			"caption": {"type": "string"},
			"transcript": {"type": "string"}
		}
	}`,
	models.NodeKindTemplate: `{
		"type": "object",
		"required": ["template_id", "title"],
		"properties": {
			"template_id": {"type": "string", "minLength": 1},
			"title": {"type": "string", "minLength": 1},
			"sections": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["heading", "content"],
					"properties": {
						"heading": {"type": "string"},
						"content": {"type": "string"}
					}
				}
			}
		}
	}`,
	models.NodeKindIdea: `{
		"type": "object",
		"required": ["title"],
		"properties": {
			"title": {"type": "string", "minLength": 1},
			"notes": {"type": "string"}
		}
	}`,
	models.NodeKindGroup: `{
		"type": "object",
		"required": ["label"],
		"properties": {
			"label": {"type": "string"},
			"node_ids": {"type": "array", "items": {"type": "string"}}
		}
	}`,
	models.NodeKindConnector: `{
		"type": "object",
		"properties": {
			"label": {"type": "string"}
		}
	}`,
	models.NodeKindChat: `{
		"type": "object",
		"required": ["messages"],
		"properties": {
			"messages": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["id", "role", "content"],
					"properties": {
						"id": {"type": "string"},
						"role": {"type": "string", "enum": ["user", "assistant", "system"]},
						"content": {"type": "string"}
					}
				}
			},
			"model": {"type": "string"}
		}
	}`,
	models.NodeKindWebpage: `{
		"type": "object",
		"required": ["url"],
		"properties": {
			"url": {"type": "string", "minLength": 1},
			"title": {"type": "string"},
			"excerpt": {"type": "string"}
		}
	}`,
}
