package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"room_number",
			"bed_number",
			"guest",
			"checkin_date",
			"checkout_date",
			"status",
			"payment_status",
			"created_at",
		},
		"additionalProperties": true,
		"properties": bson.M{
			"_id": bson.M{"bsonType": "string"},
			"room_number": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},
			"bed_number": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 16,
			},
			"guest": bson.M{
				"bsonType": "object",
				"required": []string{"name", "email", "phone"},
				"properties": bson.M{
					"name": bson.M{
						"bsonType":  "string",
						"minLength": 2,
						"maxLength": 100,
					},
					"email": bson.M{"bsonType": "string"},
					"phone": bson.M{
						"bsonType":  "string",
						"minLength": 7,
						"maxLength": 20,
					},
				},
			},
			"checkin_date":  bson.M{"bsonType": "date"},
			"checkout_date": bson.M{"bsonType": "date"},
			"price_per_bed": bson.M{
				"bsonType": []string{"double", "int", "long"},
				"minimum":  0,
			},
			"total_price": bson.M{
				"bsonType": []string{"double", "int", "long"},
				"minimum":  0,
			},
			"status": bson.M{
				"enum": []string{"pending", "confirmed", "canceled"},
			},
			"payment_status": bson.M{
				"enum": []string{"pending", "completed", "failed"},
			},
			"payment_method": bson.M{
				"enum": []string{"cash", "online"},
			},
			"transaction_id": bson.M{"bsonType": "string"},
			"created_at":     bson.M{"bsonType": "date"},
		},
	},
}
