package incidents

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/linesmerrill/incident-reports-api/models"
	"github.com/linesmerrill/incident-reports-api/notify"
)

// BulkFailure names an id that was not written and why
type BulkFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// BulkResult reports the outcome of a bulk operation id by id
type BulkResult struct {
	Requested int           `json:"requested"`
	Succeeded []string      `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}

// OK reports whether every requested id was written
func (r BulkResult) OK() bool {
	return len(r.Failed) == 0 && len(r.Succeeded) == r.Requested
}

// BulkUpdateStatus sets status on every id. If any id does not exist nothing
// is written. Otherwise all ids are updated by a single store statement, so a
// failure leaves every incident as it was.
func (s *Service) BulkUpdateStatus(ctx context.Context, ids []string, status string) (BulkResult, error) {
	if !ValidStatus(status) {
		return BulkResult{}, invalid("Invalid status %q", status)
	}
	res, err := s.bulk(ctx, ids, msgBulkStatusFailed, func(ctx context.Context, ids []string) (int64, error) {
		return s.DB.UpdateMany(ctx, ids, bson.M{"status": status})
	})
	if len(res.Succeeded) > 0 {
		zap.S().Infow("incidents status updated", "count", len(res.Succeeded), "status", status)
		s.emit(ctx, notify.Event{Type: notify.IncidentsBulkUpdated, Status: status, IDs: res.Succeeded})
	}
	return res, err
}

// BulkDelete removes every id, with the same preflight and single write as
// BulkUpdateStatus.
func (s *Service) BulkDelete(ctx context.Context, ids []string) (BulkResult, error) {
	res, err := s.bulk(ctx, ids, msgBulkDeleteFailed, func(ctx context.Context, ids []string) (int64, error) {
		return s.DB.DeleteMany(ctx, ids)
	})
	if len(res.Succeeded) > 0 {
		zap.S().Infow("incidents deleted", "count", len(res.Succeeded))
		s.emit(ctx, notify.Event{Type: notify.IncidentsBulkDeleted, IDs: res.Succeeded})
	}
	return res, err
}

func (s *Service) bulk(ctx context.Context, ids []string, message string, write func(context.Context, []string) (int64, error)) (BulkResult, error) {
	ids = dedupe(ids)
	res := BulkResult{Requested: len(ids), Succeeded: []string{}, Failed: []BulkFailure{}}
	if len(ids) == 0 {
		return res, invalid("Select at least one incident")
	}

	missing, err := s.missing(ctx, ids)
	if err != nil {
		zap.S().Errorw("bulk preflight failed", "count", len(ids), "error", err)
		return res, writeFailed(message, err)
	}
	if len(missing) > 0 {
		for _, id := range missing {
			res.Failed = append(res.Failed, BulkFailure{ID: id, Reason: "not found"})
		}
		return res, &Error{
			Kind:    KindNotFound,
			Message: fmt.Sprintf("%d of %d incidents no longer exist, nothing was changed", len(missing), len(ids)),
		}
	}

	n, err := write(ctx, ids)
	if err != nil {
		for _, id := range ids {
			res.Failed = append(res.Failed, BulkFailure{ID: id, Reason: err.Error()})
		}
		zap.S().Errorw(message, "count", len(ids), "error", err)
		return res, writeFailed(message, err)
	}
	if int(n) != len(ids) {
		// removed by someone else between the preflight and the write
		zap.S().Warnw("bulk write matched fewer incidents than requested", "requested", len(ids), "matched", n)
	}
	res.Succeeded = append(res.Succeeded, ids...)
	return res, nil
}

// missing returns the ids that are not in the store. Ids that are not valid
// object ids can never exist.
func (s *Service) missing(ctx context.Context, ids []string) ([]string, error) {
	var valid, missing []string
	for _, id := range ids {
		if primitive.IsValidObjectID(id) {
			valid = append(valid, id)
		} else {
			missing = append(missing, id)
		}
	}
	if len(valid) == 0 {
		return missing, nil
	}

	byID := []models.Constraint{{Field: "id", Operator: models.OpIn, Value: valid}}
	n, err := s.DB.Count(ctx, byID)
	if err != nil {
		return nil, err
	}
	if int(n) == len(valid) {
		return missing, nil
	}

	docs, err := s.DB.Query(ctx, models.Query{Constraints: byID})
	if err != nil {
		return nil, err
	}
	found := make(map[string]bool, len(docs))
	for _, d := range docs {
		found[d.ID.Hex()] = true
	}
	for _, id := range valid {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
