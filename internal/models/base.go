package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// StringList is a JSON encoded list column (amenities, photo URLs).
type StringList = datatypes.JSONSlice[string]

func NewStringList(values []string) StringList {
	if values == nil {
		values = []string{}
	}
	return datatypes.NewJSONSlice(values)
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
