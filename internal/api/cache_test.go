package api

import (
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"taskboard/internal/domain"
	"taskboard/internal/store"
	"taskboard/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCachedTestApp builds the app against an in-memory Redis server.
func newCachedTestApp(t *testing.T) (*testApp, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { rdb.Close() })
	return newTestAppWithCache(t, rdb), mr
}

func TestRegistrationDropsCachedRoster(t *testing.T) {
	a, mr := newCachedTestApp(t)
	a.createUser("alice")
	a.login("alice", "pw123")

	require.Equal(t, http.StatusOK, a.get("/dashboard").Code)
	require.True(t, mr.Exists(utils.RosterCacheKey))
	assert.Equal(t, utils.CacheTTL, mr.TTL(utils.RosterCacheKey))

	w := a.post("/register", url.Values{
		"username":         {"carol"},
		"email":            {"carol@x.com"},
		"password":         {"pw123"},
		"confirm_password": {"pw123"},
	})
	assertRedirect(t, w, "/login")
	assert.False(t, mr.Exists(utils.RosterCacheKey))

	body := a.get("/dashboard").Body.String()
	assert.Contains(t, body, ">carol</option>")
	assert.True(t, mr.Exists(utils.RosterCacheKey))
}

func TestTaskWritesDropCachedCounts(t *testing.T) {
	a, mr := newCachedTestApp(t)
	alice := a.createUser("alice")
	a.login("alice", "pw123")
	aliceID := strconv.FormatUint(uint64(alice.ID), 10)

	assert.Contains(t, a.get("/dashboard").Body.String(), "Blocked: 0")
	require.True(t, mr.Exists(utils.StatusCountsCacheKey))

	// Writes that bypass the handlers are not seen until the entry goes
	_, err := a.tasks.CreateTask(ctx, store.NewTask{Title: "direct", Status: domain.StatusBlocked, AssignedUserID: alice.ID, CreatedByID: alice.ID})
	require.NoError(t, err)
	assert.Contains(t, a.get("/dashboard").Body.String(), "Blocked: 0")

	w := a.post("/tasks/new", url.Values{"title": {"via form"}, "status": {"Blocked"}, "assigned_user_id": {aliceID}})
	assertRedirect(t, w, "/dashboard")
	assert.False(t, mr.Exists(utils.StatusCountsCacheKey))
	assert.Contains(t, a.get("/dashboard").Body.String(), "Blocked: 2")
	require.True(t, mr.Exists(utils.StatusCountsCacheKey))

	var viaForm *domain.Task
	for _, task := range a.allTasks() {
		if task.Title == "via form" {
			viaForm = &task
		}
	}
	require.NotNil(t, viaForm)

	w = a.post(idPath(viaForm.ID)+"/edit", url.Values{"title": {"via form"}, "status": {"Complete"}, "assigned_user_id": {aliceID}})
	assertRedirect(t, w, idPath(viaForm.ID))
	assert.False(t, mr.Exists(utils.StatusCountsCacheKey))
	body := a.get("/dashboard").Body.String()
	assert.Contains(t, body, "Blocked: 1")
	assert.Contains(t, body, "Complete: 1")

	assertRedirect(t, a.post(idPath(viaForm.ID)+"/delete", nil), "/dashboard")
	assert.False(t, mr.Exists(utils.StatusCountsCacheKey))
	assert.Contains(t, a.get("/dashboard").Body.String(), "Complete: 0")
}

func TestCacheOutageDoesNotFailRequests(t *testing.T) {
	a, mr := newCachedTestApp(t)
	alice := a.createUser("alice")
	a.login("alice", "pw123")
	require.Equal(t, http.StatusOK, a.get("/dashboard").Code)

	mr.Close()

	w := a.get("/dashboard")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ">alice</option>")

	w = a.post("/tasks/new", url.Values{
		"title":            {"during outage"},
		"status":           {"In progress"},
		"assigned_user_id": {strconv.FormatUint(uint64(alice.ID), 10)},
	})
	assertRedirect(t, w, "/dashboard")

	w = a.get("/dashboard")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "In progress: 1")
	assert.Contains(t, w.Body.String(), "during outage")

	w = a.post("/register", url.Values{
		"username":         {"dave"},
		"email":            {"dave@x.com"},
		"password":         {"pw123"},
		"confirm_password": {"pw123"},
	})
	assertRedirect(t, w, "/login")
}
