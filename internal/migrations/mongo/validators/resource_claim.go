package validators

import "go.mongodb.org/mongo-driver/bson"

// Claim _id is "<kind>/<resource_id>", so uniqueness of the held resource is
// enforced by the primary key itself rather than a secondary index.
var ResourceClaimValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"kind",
			"resource_id",
			"reservation_id",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 3,
			},

			"kind": bson.M{
				"enum": []string{"dedicated_desk", "private_office"},
			},

			"resource_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 120,
			},

			"reservation_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
