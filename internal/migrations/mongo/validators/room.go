package validators

import "go.mongodb.org/mongo-driver/bson"

var RoomValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"room_number", "type", "beds", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"room_number": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},
			"type": bson.M{
				"enum": []string{"standard", "deluxe", "suite"},
			},
			"beds": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"bed_number", "status", "price_per_bed"},
					"properties": bson.M{
						"bed_number": bson.M{
							"bsonType":  "string",
							"minLength": 1,
							"maxLength": 16,
						},
						"status": bson.M{
							"enum": []string{"available", "occupied", "maintenance"},
						},
						"price_per_bed": bson.M{
							"bsonType": []string{"double", "int", "long"},
							"minimum":  0,
						},
					},
				},
			},
			"features": bson.M{
				"bsonType": "array",
				"items":    bson.M{"bsonType": "string"},
			},
			"created_at": bson.M{"bsonType": "date"},
			"updated_at": bson.M{"bsonType": "date"},
		},
	},
}
