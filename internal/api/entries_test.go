package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/terraincognita07/cyclecast/internal/models"
)

func TestEntriesCRUD(t *testing.T) {
	env := newTestApp(t)
	env.createUser(t, "owner@example.com", "StrongPass1", models.RoleOwner)
	token := env.login(t, "owner@example.com", "StrongPass1")

	createResponse := env.request(t, http.MethodPost, "/api/entries", token, map[string]any{
		"date":              "2024-02-01",
		"flow":              "medium",
		"period_start_date": "2024-02-01",
		"symptoms":          map[string]int{"cramps": 3},
		"notes":             "first day",
	})
	defer createResponse.Body.Close()
	expectStatus(t, createResponse, http.StatusCreated)

	var created models.PeriodEntry
	decodeJSON(t, createResponse, &created)
	if created.ID == 0 || created.Symptoms.Cramps != 3 || created.Flow != models.FlowMedium {
		t.Fatalf("unexpected created entry: %+v", created)
	}

	path := fmt.Sprintf("/api/entries/%d", created.ID)
	updateResponse := env.request(t, http.MethodPut, path, token, map[string]any{
		"date":              "2024-02-01",
		"flow":              "heavy",
		"period_start_date": "2024-02-01",
		"period_end_date":   "2024-02-05",
	})
	defer updateResponse.Body.Close()
	expectStatus(t, updateResponse, http.StatusOK)

	listResponse := env.request(t, http.MethodGet, "/api/entries", token, nil)
	defer listResponse.Body.Close()
	expectStatus(t, listResponse, http.StatusOK)

	var listed []models.PeriodEntry
	decodeJSON(t, listResponse, &listed)
	if len(listed) != 1 || listed[0].PeriodEndDate != "2024-02-05" || listed[0].Flow != models.FlowHeavy {
		t.Fatalf("unexpected listed entries: %+v", listed)
	}

	deleteResponse := env.request(t, http.MethodDelete, path, token, nil)
	defer deleteResponse.Body.Close()
	expectStatus(t, deleteResponse, http.StatusNoContent)

	missingResponse := env.request(t, http.MethodDelete, path, token, nil)
	defer missingResponse.Body.Close()
	expectStatus(t, missingResponse, http.StatusNotFound)
}

func TestCreateEntryRejectsInvalidInput(t *testing.T) {
	env := newTestApp(t)
	env.createUser(t, "owner@example.com", "StrongPass1", models.RoleOwner)
	token := env.login(t, "owner@example.com", "StrongPass1")

	testCases := []struct {
		name    string
		body    map[string]any
		message string
	}{
		{
			name:    "unknown flow",
			body:    map[string]any{"date": "2024-02-01", "flow": "gushing"},
			message: "flow oneof",
		},
		{
			name:    "severity above scale",
			body:    map[string]any{"date": "2024-02-01", "flow": "light", "symptoms": map[string]int{"headache": 9}},
			message: "symptoms.headache max",
		},
		{
			name: "end before start",
			body: map[string]any{
				"date":              "2024-02-05",
				"flow":              "light",
				"period_start_date": "2024-02-05",
				"period_end_date":   "2024-02-01",
			},
			message: "period end date precedes start date",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			response := env.request(t, http.MethodPost, "/api/entries", token, tc.body)
			defer response.Body.Close()
			expectStatus(t, response, http.StatusBadRequest)

			var payload struct {
				Error string `json:"error"`
			}
			decodeJSON(t, response, &payload)
			if !strings.Contains(payload.Error, tc.message) {
				t.Fatalf("expected error containing %q, got %q", tc.message, payload.Error)
			}
		})
	}
}

func TestEntriesAreScopedToOwnerAndPartnersCannotWrite(t *testing.T) {
	env := newTestApp(t)
	env.createUser(t, "owner@example.com", "StrongPass1", models.RoleOwner)
	env.createUser(t, "other@example.com", "StrongPass1", models.RoleOwner)
	env.createUser(t, "partner@example.com", "StrongPass1", models.RolePartner)
	ownerToken := env.login(t, "owner@example.com", "StrongPass1")
	otherToken := env.login(t, "other@example.com", "StrongPass1")
	partnerToken := env.login(t, "partner@example.com", "StrongPass1")

	createResponse := env.request(t, http.MethodPost, "/api/entries", ownerToken, map[string]any{"date": "2024-02-01", "flow": "light"})
	defer createResponse.Body.Close()
	expectStatus(t, createResponse, http.StatusCreated)
	var created models.PeriodEntry
	decodeJSON(t, createResponse, &created)

	otherResponse := env.request(t, http.MethodDelete, fmt.Sprintf("/api/entries/%d", created.ID), otherToken, nil)
	defer otherResponse.Body.Close()
	expectStatus(t, otherResponse, http.StatusNotFound)

	partnerResponse := env.request(t, http.MethodPost, "/api/entries", partnerToken, map[string]any{"date": "2024-02-01", "flow": "light"})
	defer partnerResponse.Body.Close()
	expectStatus(t, partnerResponse, http.StatusForbidden)

	badIDResponse := env.request(t, http.MethodPut, "/api/entries/abc", ownerToken, map[string]any{"date": "2024-02-01", "flow": "light"})
	defer badIDResponse.Body.Close()
	expectStatus(t, badIDResponse, http.StatusBadRequest)
}
