package validators

import "go.mongodb.org/mongo-driver/bson"

// calendarDatePattern accepts YYYY-MM-DD text. Day-of-month validity is
// checked by the service; the store only guards the shape.
const calendarDatePattern = `^[0-9]{4}-(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01])$`

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"tool_id",
			"user_id",
			"start_date",
			"end_date",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"tool_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 128,
			},

			"start_date": bson.M{
				"bsonType": "string",
				"pattern":  calendarDatePattern,
			},

			"end_date": bson.M{
				"bsonType": "string",
				"pattern":  calendarDatePattern,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var BookingLockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "tool_id", "owner", "expires_at"},
		"properties": bson.M{
			"_id":        bson.M{"bsonType": "string"},
			"tool_id":    bson.M{"bsonType": "string"},
			"owner":      bson.M{"bsonType": "string", "minLength": 1},
			"expires_at": bson.M{"bsonType": "date"},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}

var ToolSequenceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "seq"},
		"properties": bson.M{
			"_id":        bson.M{"bsonType": "string"},
			"seq":        bson.M{"bsonType": "long", "minimum": 1},
			"updated_at": bson.M{"bsonType": "date"},
		},
	},
}
