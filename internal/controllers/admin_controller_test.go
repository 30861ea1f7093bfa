package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogd/internal/content"
	"catalogd/internal/models"
	"catalogd/internal/services"
	"catalogd/internal/snapshot"
	"catalogd/internal/structures"
	"catalogd/internal/testutil"
)

func seedAdminFetcher() *testutil.MockFetcher {
	fetcher := testutil.NewMockFetcher()
	fetcher.Docs[content.PathSiteInfo] = `{"name":"城市生活超市","logo":"/img/logo.png","contact":{"phone":"010-88886666","email":"hello@shop.cn"}}`
	fetcher.Docs[content.PagePath("about")] = `{"id":"about","title":"关于我们"}`
	return fetcher
}

func newAdminController() (*AdminController, *snapshot.ActivityLog, *snapshot.BackupStore) {
	kv := testutil.NewMockKV()
	logger := &testutil.MockLogger{}
	activity := snapshot.NewActivityLog(kv, logger)
	backups := snapshot.NewBackupStore(kv, logger)
	catalog := services.NewCatalogService(&structures.Config{}, seedAdminFetcher(), logger, testutil.NewMockMetrics())
	return NewAdminController(logger, activity, backups, catalog), activity, backups
}

func doPost(t *testing.T, handler http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestRecordActivity(t *testing.T) {
	ac, activity, _ := newAdminController()

	rr := doPost(t, ac.RecordActivity, "/admin/activity", `{"type":"upload","target":"products.xlsx","description":"imported"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var entry snapshot.Activity
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entry))
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, snapshot.ActivityUpload, entry.Type)
	assert.Equal(t, 1, activity.Len())
}

func TestRecordActivity_UnknownType(t *testing.T) {
	ac, _, _ := newAdminController()
	rr := doPost(t, ac.RecordActivity, "/admin/activity", `{"type":"destroy","target":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRecordActivity_MalformedBody(t *testing.T) {
	ac, _, _ := newAdminController()
	rr := doPost(t, ac.RecordActivity, "/admin/activity", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetActivities(t *testing.T) {
	ac, activity, _ := newAdminController()
	activity.Add(snapshot.ActivityConfig, "site-info", "edited")

	rr := doGet(t, ac.GetActivities, "/admin/activities")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Items []snapshot.Activity `json:"items"`
		Total int                 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "site-info", resp.Items[0].Target)
}

func TestClearActivities(t *testing.T) {
	ac, activity, _ := newAdminController()
	activity.Add(snapshot.ActivityConfig, "site-info", "")

	rr := doPost(t, ac.ClearActivities, "/admin/activities/clear", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, 0, activity.Len())
}

func TestCreateBackup_RecordsActivity(t *testing.T) {
	ac, activity, backups := newAdminController()

	rr := doPost(t, ac.CreateBackup, "/admin/backup", `{"type":"site-info","data":{"name":"超市"}}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var backup snapshot.Backup
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &backup))
	assert.NotEmpty(t, backup.Checksum)
	assert.Equal(t, 1, backups.Count())
	assert.Equal(t, 1, activity.Len())
}

func TestCreateBackup_MissingFields(t *testing.T) {
	ac, _, _ := newAdminController()
	assert.Equal(t, http.StatusBadRequest, doPost(t, ac.CreateBackup, "/admin/backup", `{"type":"site-info"}`).Code)
	assert.Equal(t, http.StatusBadRequest, doPost(t, ac.CreateBackup, "/admin/backup", `{"data":{"a":1}}`).Code)
}

func TestGetBackups(t *testing.T) {
	ac, _, backups := newAdminController()
	_, err := backups.Create("config", map[string]int{"rev": 1})
	require.NoError(t, err)

	rr := doGet(t, ac.GetBackups, "/admin/backups")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
}

func TestRestoreBackup(t *testing.T) {
	ac, _, backups := newAdminController()
	b, err := backups.Create("site-info", map[string]string{"name": "超市"})
	require.NoError(t, err)

	rr := doPost(t, ac.RestoreBackup, "/admin/restore", `{"id":"`+b.ID+`"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		ID   string          `json:"id"`
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, b.ID, resp.ID)
	assert.JSONEq(t, `{"name":"超市"}`, string(resp.Data))
}

func TestRestoreBackup_NotFound(t *testing.T) {
	ac, _, _ := newAdminController()
	rr := doPost(t, ac.RestoreBackup, "/admin/restore", `{"id":"missing"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRestoreBackup_CorruptedConflict(t *testing.T) {
	kv := testutil.NewMockKV()
	logger := &testutil.MockLogger{}
	activity := snapshot.NewActivityLog(kv, logger)
	backups := snapshot.NewBackupStore(kv, logger)
	catalog := services.NewCatalogService(&structures.Config{}, testutil.NewMockFetcher(), logger, testutil.NewMockMetrics())
	ac := NewAdminController(logger, activity, backups, catalog)

	// Persist a backup whose stored checksum does not match its payload.
	tampered := []snapshot.Backup{{
		ID:       "bad",
		Type:     "site-info",
		Data:     json.RawMessage(`{"name":"篡改"}`),
		Checksum: "00000000",
	}}
	require.NoError(t, kv.Set(snapshot.BackupsKey, tampered))
	require.NoError(t, backups.RestoreFromDisk())

	rr := doPost(t, ac.RestoreBackup, "/admin/restore", `{"id":"bad"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestDeleteBackup(t *testing.T) {
	ac, _, backups := newAdminController()
	b, err := backups.Create("config", map[string]int{"rev": 1})
	require.NoError(t, err)

	rr := doPost(t, ac.DeleteBackup, "/admin/backup/delete", `{"id":"`+b.ID+`"}`)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, 0, backups.Count())
}

func TestUpdateSiteInfo(t *testing.T) {
	ac, activity, _ := newAdminController()

	rr := doPost(t, ac.UpdateSiteInfo, "/admin/site-info", `{"fields":{"name":"新生活超市"}}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		SiteInfo models.SiteInfo `json:"siteInfo"`
		Dirty    bool            `json:"dirty"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "新生活超市", resp.SiteInfo["name"])
	assert.Equal(t, "/img/logo.png", resp.SiteInfo["logo"])
	assert.True(t, resp.Dirty)
	assert.Equal(t, 1, activity.Len())
}

func TestUpdateSiteInfo_RejectsInvalidMerge(t *testing.T) {
	ac, activity, _ := newAdminController()

	// Blanking the name leaves the merged document without a required field.
	rr := doPost(t, ac.UpdateSiteInfo, "/admin/site-info", `{"fields":{"name":""}}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var result struct {
		IsValid bool `json:"isValid"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.False(t, result.IsValid)
	assert.Equal(t, 0, activity.Len())
	assert.False(t, ac.catalog.Config().Dirty())
}

func TestUpdateSiteInfo_EmptyFields(t *testing.T) {
	ac, _, _ := newAdminController()
	assert.Equal(t, http.StatusBadRequest, doPost(t, ac.UpdateSiteInfo, "/admin/site-info", `{"fields":{}}`).Code)
	assert.Equal(t, http.StatusBadRequest, doPost(t, ac.UpdateSiteInfo, "/admin/site-info", `{not json`).Code)
}

func TestUpdateSiteInfo_LoadFailure(t *testing.T) {
	kv := testutil.NewMockKV()
	logger := &testutil.MockLogger{}
	activity := snapshot.NewActivityLog(kv, logger)
	backups := snapshot.NewBackupStore(kv, logger)
	fetcher := testutil.NewMockFetcher()
	fetcher.SetErr(content.PathSiteInfo, errors.New("unexpected status 404"))
	catalog := services.NewCatalogService(&structures.Config{}, fetcher, logger, testutil.NewMockMetrics())
	ac := NewAdminController(logger, activity, backups, catalog)

	rr := doPost(t, ac.UpdateSiteInfo, "/admin/site-info", `{"fields":{"name":"x"}}`)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestExportSiteInfo_MarksSaved(t *testing.T) {
	ac, activity, _ := newAdminController()

	rr := doPost(t, ac.UpdateSiteInfo, "/admin/site-info", `{"fields":{"name":"新名字"}}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, ac.catalog.Config().Dirty())

	rr = doGet(t, ac.ExportSiteInfo, "/admin/site-info/export")
	require.Equal(t, http.StatusOK, rr.Code)

	var info models.SiteInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.Equal(t, "新名字", info["name"])
	assert.False(t, ac.catalog.Config().Dirty())
	assert.Equal(t, 2, activity.Len())
}

func TestUpdatePage(t *testing.T) {
	ac, activity, _ := newAdminController()

	rr := doPost(t, ac.UpdatePage, "/admin/page", `{"id":"about","fields":{"title":"门店介绍"}}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var page models.PageContent
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Equal(t, "门店介绍", page["title"])
	assert.Equal(t, "about", page["id"])
	assert.Equal(t, 1, activity.Len())
}

func TestUpdatePage_InvalidID(t *testing.T) {
	ac, _, _ := newAdminController()
	rr := doPost(t, ac.UpdatePage, "/admin/page", `{"id":"../secrets","fields":{"title":"x"}}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdatePage_RejectsInvalidMerge(t *testing.T) {
	ac, _, _ := newAdminController()
	rr := doPost(t, ac.UpdatePage, "/admin/page", `{"id":"about","fields":{"title":""}}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, ac.catalog.Config().Dirty())
}

func TestValidateDocument(t *testing.T) {
	ac, _, _ := newAdminController()

	rr := doPost(t, ac.ValidateDocument, "/admin/validate", `{"kind":"page","document":{"id":"about","title":"关于"}}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var result struct {
		IsValid bool `json:"isValid"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.True(t, result.IsValid)
}

func TestValidateDocument_ReportsErrors(t *testing.T) {
	ac, _, _ := newAdminController()

	rr := doPost(t, ac.ValidateDocument, "/admin/validate", `{"kind":"product","document":{"id":"p1"}}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var result struct {
		IsValid bool `json:"isValid"`
		Errors  []struct {
			Path string `json:"path"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.False(t, result.IsValid)
	assert.NotEmpty(t, result.Errors)
}

func TestValidateDocument_UnknownKind(t *testing.T) {
	ac, _, _ := newAdminController()
	rr := doPost(t, ac.ValidateDocument, "/admin/validate", `{"kind":"order","document":{}}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
