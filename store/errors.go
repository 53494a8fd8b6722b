package store

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	badValueErrorCode     = 2
	noQueryExecutionPlans = 291
)

// IsQueryPlanError reports whether the server refused to plan a query, for
// example because a hinted index does not exist.
func IsQueryPlanError(err error) bool {
	var serverErr mongo.ServerError
	if !errors.As(err, &serverErr) {
		return false
	}
	return serverErr.HasErrorCode(badValueErrorCode) || serverErr.HasErrorCode(noQueryExecutionPlans)
}
