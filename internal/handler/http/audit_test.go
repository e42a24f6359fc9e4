package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chopie/restaurant/internal/handler/http/mocks"
	"github.com/chopie/restaurant/internal/models"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditHandler_ListEntries(t *testing.T) {
	at := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	orderID := uint64(7)
	entries := []models.AuditEntry{
		{
			ID:         1,
			StaffID:    3,
			OrderID:    &orderID,
			Action:     models.AuditActionAcceptOrder,
			Details:    "order CHO-20260829-A1B2C3",
			SourceAddr: "10.0.0.5:51234",
			CreatedAt:  at,
		},
	}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svcMock := mocks.NewMockAuditService(ctrl)
	svcMock.EXPECT().Recent(gomock.Any()).Return(entries, nil)

	req, err := http.NewRequest(http.MethodGet, "/api/v1/staff/audit", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	handler := NewAuditHandler(svcMock)
	h := handler.ListEntries()
	h(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var got struct {
		Data []models.AuditEntry `json:"data"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))

	if diff := cmp.Diff(entries, got.Data); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
