package model

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// StringList is always a sequence in memory, but tolerates legacy documents
// that stored a single bare string instead of an array. The flattening
// happens once, here at the ingestion boundary, so everything downstream
// (occupancy resolution, contract rendering) can rely on a slice.
type StringList []string

func (s StringList) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string(s))
}

func (s *StringList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*s = many
		return nil
	}

	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	if one == "" {
		*s = nil
		return nil
	}
	*s = StringList{one}
	return nil
}

func (s StringList) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue([]string(s))
}

func (s *StringList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}

	if t == bson.TypeString {
		var one string
		if err := raw.Unmarshal(&one); err != nil {
			return err
		}
		if one == "" {
			*s = nil
			return nil
		}
		*s = StringList{one}
		return nil
	}

	var many []string
	if err := raw.Unmarshal(&many); err != nil {
		return err
	}
	*s = many
	return nil
}
