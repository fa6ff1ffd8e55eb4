package validators

import "go.mongodb.org/mongo-driver/bson"

var ReservationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"kind",
			"tenant",
			"billing",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"kind": bson.M{
				"enum": []string{"dedicated_desk", "private_office", "virtual_office"},
			},

			"tenant": bson.M{
				"bsonType": "object",
				"required": []string{"name", "email"},
				"properties": bson.M{
					"name": bson.M{
						"bsonType":  "string",
						"minLength": 2,
						"maxLength": 120,
					},
					"email": bson.M{
						"bsonType": "string",
						"pattern":  `^[^@\s]+@[^@\s]+\.[^@\s]+$`,
					},
					"phone": bson.M{
						"bsonType": "string",
					},
					"company": bson.M{
						"bsonType":  "string",
						"maxLength": 160,
					},
					"address": bson.M{
						"bsonType":  "string",
						"maxLength": 240,
					},
				},
			},

			"resource_ids": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "string",
				},
			},

			"inclusions": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "string",
				},
			},

			"billing": bson.M{
				"bsonType": "object",
				"required": []string{"rate", "months", "start_date", "end_date", "subtotal", "vat", "total"},
				"properties": bson.M{
					"rate": bson.M{
						"bsonType":         "double",
						"exclusiveMinimum": true,
						"minimum":          0,
					},
					"resource_count": bson.M{
						"bsonType": "int",
						"minimum":  0,
					},
					"months": bson.M{
						"bsonType": "int",
						"minimum":  1,
					},
					"cusa_fee": bson.M{
						"bsonType": "double",
						"minimum":  0,
					},
					"parking_fee": bson.M{
						"bsonType": "double",
						"minimum":  0,
					},
					"start_date": bson.M{
						"bsonType": "string",
						"pattern":  `^\d{4}-\d{2}-\d{2}$`,
					},
					"end_date": bson.M{
						"bsonType": "string",
						"pattern":  `^\d{4}-\d{2}-\d{2}$`,
					},
					"subtotal": bson.M{
						"bsonType": "double",
						"minimum":  0,
					},
					"vat": bson.M{
						"bsonType": "double",
						"minimum":  0,
					},
					"total": bson.M{
						"bsonType": "double",
						"minimum":  0,
					},
					"extensions": bson.M{
						"bsonType": "array",
						"items": bson.M{
							"bsonType": "object",
							"required": []string{"from", "to", "months", "amount"},
						},
					},
				},
			},

			"status": bson.M{
				"enum": []string{"active", "deactivated"},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
