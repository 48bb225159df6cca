package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"socialite/internal/handlers"
	"socialite/internal/middleware"
	"socialite/internal/models"
	"socialite/internal/repositories"
	"socialite/internal/services"
)

// setupApp sets up a Fiber app for testing with in-memory SQLite and all
// handlers/services wired the way main does it.
func setupApp() (*fiber.App, error) {
	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to in-memory database: %w", err)
	}

	err = db.AutoMigrate(&models.User{}, &models.Follow{}, &models.Message{})
	if err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	userRepo := repositories.NewGORMUserRepository(db)
	messageRepo := repositories.NewGORMMessageRepository(db)

	accountService := services.NewAccountService(userRepo, jwtSecret)
	socialService := services.NewSocialService(userRepo, nil) // nil for RabbitMQ client
	messageService := services.NewMessageService(messageRepo, userRepo, nil)

	accountHandler := handlers.NewAccountHandler(accountService)
	socialHandler := handlers.NewSocialHandler(socialService)
	messageHandler := handlers.NewMessageHandler(messageService)

	app := fiber.New()
	api := app.Group("/api")
	auth := middleware.AuthRequired(accountService)

	accountHandler.RegisterRoutes(api, auth)
	socialHandler.RegisterRoutes(api, auth)
	messageHandler.RegisterRoutes(api, auth)

	return app, nil
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1) // -1 for no timeout
	require.NoError(t, err)

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	if len(raw) > 0 {
		// Leaderboard and inbox responses are arrays; callers decode those
		// themselves from raw when needed.
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func signupAndLogin(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()

	creds := map[string]string{"username": username, "password": password}
	resp, body := doJSON(t, app, http.MethodPost, "/api/signup", "", creds)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "User created", body["message"])

	resp, body = doJSON(t, app, http.MethodPost, "/api/login", "", creds)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestSignupAndLogin(t *testing.T) {
	app, err := setupApp()
	require.NoError(t, err)

	token := signupAndLogin(t, app, "it_alice", "password123")

	// Duplicate signup surfaces as the generic creation failure
	resp, body := doJSON(t, app, http.MethodPost, "/api/signup", "",
		map[string]string{"username": "it_alice", "password": "other"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Error creating user", body["message"])

	// Wrong password is indistinguishable from an unknown username
	resp, body = doJSON(t, app, http.MethodPost, "/api/login", "",
		map[string]string{"username": "it_alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", body["message"])

	resp, body = doJSON(t, app, http.MethodPost, "/api/login", "",
		map[string]string{"username": "it_nobody", "password": "password123"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", body["message"])

	// /me requires a token
	resp, _ = doJSON(t, app, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/api/me", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "it_alice", body["username"])
	assert.EqualValues(t, 0, body["followersCount"])
}

func TestUpdatePassword(t *testing.T) {
	app, err := setupApp()
	require.NoError(t, err)

	token := signupAndLogin(t, app, "it_carol", "oldpassword")

	resp, body := doJSON(t, app, http.MethodPut, "/api/me/update-password", token,
		map[string]string{"password": "newpassword"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Password updated", body["message"])

	// Old password no longer works, new one does
	resp, _ = doJSON(t, app, http.MethodPost, "/api/login", "",
		map[string]string{"username": "it_carol", "password": "oldpassword"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/login", "",
		map[string]string{"username": "it_carol", "password": "newpassword"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestFollowAndUnfollow(t *testing.T) {
	app, err := setupApp()
	require.NoError(t, err)

	followerToken := signupAndLogin(t, app, "it_follower", "password123")
	targetToken := signupAndLogin(t, app, "it_target", "password123")

	// Resolve the target's id via the leaderboard
	targetID := findUserID(t, app, "it_target")

	resp, body := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/user/%d/follow", targetID), followerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "User followed", body["message"])

	// Counter moved by exactly one
	resp, body = doJSON(t, app, http.MethodGet, "/api/me", targetToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["followersCount"])

	// Following twice is rejected
	resp, body = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/user/%d/follow", targetID), followerToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Already following this user", body["message"])

	// Unfollow brings the counter back down
	resp, body = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/user/%d/unfollow", targetID), followerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "User unfollowed", body["message"])

	resp, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/user/%d", targetID), "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, body["followersCount"])

	// Unfollowing again still succeeds and stays at zero
	resp, body = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/user/%d/unfollow", targetID), followerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "User unfollowed", body["message"])

	resp, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/user/%d", targetID), "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, body["followersCount"])

	// Following an unknown user is a 404
	resp, body = doJSON(t, app, http.MethodPost, "/api/user/999999/follow", followerToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found", body["message"])
}

func TestMostFollowedOrdering(t *testing.T) {
	app, err := setupApp()
	require.NoError(t, err)

	signupAndLogin(t, app, "it_star", "password123")
	signupAndLogin(t, app, "it_minor", "password123")
	starID := findUserID(t, app, "it_star")
	minorID := findUserID(t, app, "it_minor")

	for i := 0; i < 3; i++ {
		fanToken := signupAndLogin(t, app, fmt.Sprintf("it_fan%d", i), "password123")
		resp, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/user/%d/follow", starID), fanToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		if i == 0 {
			resp, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/user/%d/follow", minorID), fanToken, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
		}
	}

	rankings := fetchRankings(t, app)
	starPos, minorPos := -1, -1
	for i, r := range rankings {
		switch r.Username {
		case "it_star":
			starPos = i
			assert.Equal(t, 3, r.FollowersCount)
		case "it_minor":
			minorPos = i
			assert.Equal(t, 1, r.FollowersCount)
		}
	}
	require.NotEqual(t, -1, starPos)
	require.NotEqual(t, -1, minorPos)
	assert.Less(t, starPos, minorPos)

	// The whole list is ordered by follower count descending
	for i := 1; i < len(rankings); i++ {
		assert.GreaterOrEqual(t, rankings[i-1].FollowersCount, rankings[i].FollowersCount)
	}
}

func TestCreateMessage(t *testing.T) {
	app, err := setupApp()
	require.NoError(t, err)

	senderToken := signupAndLogin(t, app, "it_sender", "password123")
	receiverToken := signupAndLogin(t, app, "it_receiver", "password123")
	receiverID := findUserID(t, app, "it_receiver")

	resp, body := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/user/%d/create-message", receiverID), senderToken,
		map[string]string{"message": "hello there"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Message sent", body["message"])

	// Messaging an unknown user is a 404 and persists nothing
	resp, body = doJSON(t, app, http.MethodPost, "/api/user/999999/create-message", senderToken,
		map[string]string{"message": "void"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found", body["message"])

	// The receiver sees exactly one message
	req := httptest.NewRequest(http.MethodGet, "/api/me/messages", nil)
	req.Header.Set("Authorization", "Bearer "+receiverToken)
	rawResp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer rawResp.Body.Close()
	assert.Equal(t, http.StatusOK, rawResp.StatusCode)

	var inbox []models.Message
	require.NoError(t, json.NewDecoder(rawResp.Body).Decode(&inbox))
	require.Len(t, inbox, 1)
	assert.Equal(t, "hello there", inbox[0].Content)
}

// findUserID resolves a username to its id via the public leaderboard.
func findUserID(t *testing.T, app *fiber.App, username string) uint {
	t.Helper()
	for _, r := range fetchRankings(t, app) {
		if r.Username == username {
			return r.ID
		}
	}
	t.Fatalf("user %s not found in rankings", username)
	return 0
}

func fetchRankings(t *testing.T, app *fiber.App) []models.UserRanking {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/most-followed", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rankings []models.UserRanking
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rankings))
	return rankings
}
