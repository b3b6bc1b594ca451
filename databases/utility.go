package databases

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/incident-reports-api/models"
)

var mongoOperators = map[string]string{
	models.OpEqual:         "$eq",
	models.OpGreaterEqual:  "$gte",
	models.OpLessEqual:     "$lte",
	models.OpLess:          "$lt",
	models.OpArrayContains: "$all",
	models.OpIn:            "$in",
}

// buildFilter translates constraints into a mongo filter. Constraints on the
// same field are merged, so a range becomes {"field": {"$gte": a, "$lte": b}}.
// The "id" field addresses _id and its values are converted to ObjectIDs.
func buildFilter(constraints []models.Constraint) (bson.M, error) {
	filter := bson.M{}
	for _, c := range constraints {
		op, ok := mongoOperators[c.Operator]
		if !ok {
			return nil, fmt.Errorf("unsupported operator %q on field %q", c.Operator, c.Field)
		}

		field, value := c.Field, c.Value
		if field == "id" {
			field = "_id"
			v, err := toObjectIDs(value)
			if err != nil {
				return nil, err
			}
			value = v
		}
		if c.Operator == models.OpArrayContains {
			value = bson.A{value}
		}

		ops, ok := filter[field].(bson.M)
		if !ok {
			ops = bson.M{}
			filter[field] = ops
		}
		ops[op] = value
	}
	return filter, nil
}

func toObjectIDs(v interface{}) (interface{}, error) {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id, nil
	case string:
		return primitive.ObjectIDFromHex(id)
	case []string:
		ids := make([]primitive.ObjectID, 0, len(id))
		for _, s := range id {
			oid, err := primitive.ObjectIDFromHex(s)
			if err != nil {
				return nil, fmt.Errorf("invalid id %q: %w", s, err)
			}
			ids = append(ids, oid)
		}
		return ids, nil
	}
	return nil, fmt.Errorf("unsupported id value %T", v)
}

func findOptions(q models.Query) *options.FindOptions {
	opts := options.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Descending {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderBy, Value: dir}})
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	return opts
}
