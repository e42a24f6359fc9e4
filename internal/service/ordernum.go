package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const orderNumberPrefix = "CHO"

// GenerateOrderNumber produces an order number of form CHO-YYYYMMDD-XXXXXX
// where the suffix is random hex. The date component keeps numbers traceable
// by day; uniqueness is enforced by the storage constraint and a collision is
// retried by the caller.
func GenerateOrderNumber(now time.Time) string {
	id := uuid.New()
	return fmt.Sprintf("%s-%s-%X", orderNumberPrefix, now.Format("20060102"), id[:3])
}
