package validators

import (
	"go.mongodb.org/mongo-driver/bson"

	"toolrent/pkg/model"
)

var ToolValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"owner_id",
			"name",
			"category",
			"city",
			"daily_rate",
			"currency",
			"owner_phone",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},
			"owner_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 128,
			},
			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},
			"description": bson.M{
				"bsonType":  "string",
				"maxLength": 1000,
			},
			"category": bson.M{
				"bsonType": "string",
				"enum":     model.ToolCategories,
			},
			"city": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},
			"daily_rate": bson.M{
				"bsonType": "long",
				"minimum":  1,
			},
			"currency": bson.M{
				"bsonType": "string",
				"pattern":  "^[A-Z]{3}$",
			},
			"owner_phone": bson.M{
				"bsonType": "string",
				"pattern":  `^\+[1-9][0-9]{7,14}$`,
			},
			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
