package validators

import "go.mongodb.org/mongo-driver/bson"

var HousekeepingTaskValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"room_number",
			"bed_number",
			"task",
			"shift",
			"task_status",
			"assigned_date",
		},
		"additionalProperties": true,
		"properties": bson.M{
			"_id": bson.M{"bsonType": "string"},
			"staff_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},
			"room_number": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},
			"bed_number": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 16,
			},
			"task": bson.M{
				"enum": []string{"cleaning", "laundry", "maintenance", "inspection"},
			},
			"shift": bson.M{
				"enum": []string{"morning", "evening", "night"},
			},
			"task_status": bson.M{
				"enum": []string{"pending", "in-progress", "completed"},
			},
			"assigned_date":   bson.M{"bsonType": "date"},
			"completion_date": bson.M{"bsonType": "date"},
		},
	},
}

var BedLockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"expires_at", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":        bson.M{"bsonType": "string"},
			"expires_at": bson.M{"bsonType": "date"},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}
