package rest

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/buzkaaclicker/userconf"
	"github.com/buzkaaclicker/userconf/inmem"
	"github.com/buzkaaclicker/userconf/mock"
	"github.com/buzkaaclicker/userconf/session"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func doRequest(t *testing.T, app *fiber.App, method, path, body string) (int, string) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	respBody, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, string(respBody)
}

func newProfileApp(service userconf.UserConfigService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	controller := ProfileController{Service: service}
	controller.InstallTo(app)
	app.Use(NotFoundHandler)
	return app
}

func TestProfileControllerLookup(t *testing.T) {
	assert := assert.New(t)

	app := newProfileApp(mock.UserConfigService{
		UserInfoFn: func(ctx context.Context, userId userconf.UserId) (userconf.UserInfo, error) {
			if userId != 1 {
				return userconf.UserInfo{}, nil
			}
			return userconf.UserInfo{
				Name:       "ww_makin_c",
				Priority:   1,
				ProfilePic: &userconf.ProfilePic{URL: "https://buzkaaclicker.pl/avatar/123", Key: []byte{0x01, 0x02}},
			}, nil
		},
	})

	code, body := doRequest(t, app, "GET", "/profile/1", "")
	assert.Equal(fiber.StatusOK, code)
	assert.Equal(`{"name":"ww_makin_c","priority":1,"url":"https://buzkaaclicker.pl/avatar/123","key":"AQI="}`, body)

	code, body = doRequest(t, app, "GET", "/profile/2", "")
	assert.Equal(fiber.StatusOK, code)
	assert.Equal(`{"name":null,"priority":0,"url":null,"key":null}`, body)

	code, body = doRequest(t, app, "GET", "/profile/abc", "")
	assert.Equal(fiber.StatusBadRequest, code)
	assert.Equal(jsonErrorMessageResponse("invalid user id"), body)
}

func TestProfileControllerUpdate(t *testing.T) {
	assert := assert.New(t)

	app := newProfileApp(session.NewManager(inmem.NewDumpStore(), nil))

	code, body := doRequest(t, app, "PUT", "/profile/5",
		`{"name":"alice","priority":1,"profilePic":{"url":"https://x/y","key":"AQI="}}`)
	assert.Equal(fiber.StatusOK, code)
	assert.Equal(`{"name":"alice","priority":1,"url":"https://x/y","key":"AQI="}`, body)

	code, body = doRequest(t, app, "GET", "/profile/5", "")
	assert.Equal(fiber.StatusOK, code)
	assert.Equal(`{"name":"alice","priority":1,"url":"https://x/y","key":"AQI="}`, body)

	code, body = doRequest(t, app, "PUT", "/profile/5", `{"name":null,"priority":-1,"profilePic":null}`)
	assert.Equal(fiber.StatusOK, code)
	assert.Equal(`{"name":null,"priority":-1,"url":null,"key":null}`, body)
}

func TestProfileControllerRejectsBadInput(t *testing.T) {
	assert := assert.New(t)

	manager := session.NewManager(inmem.NewDumpStore(), nil)
	app := newProfileApp(manager)

	cases := []struct {
		body    string
		message string
	}{
		{body: `[]`, message: "body: expected object"},
		{body: `{"name":5,"priority":0}`, message: "name: expected string or null"},
		{body: `{"name":"a"}`, message: "priority: expected number"},
		{body: `{"priority":"1"}`, message: "priority: expected number"},
		{body: `{"priority":1.5}`, message: "invalid priority: 1.5 is not an integer"},
		{body: `{"priority":-2}`},
		{body: `{"priority":0,"profilePic":"x"}`, message: "profilePic: expected object or null"},
		{body: `{"priority":0,"profilePic":{"url":"https://x/y","key":"%%"}}`, message: "profilePic.key: expected base64 string"},
		{body: `{"priority":0,"profilePic":{"url":"https://x/y"}}`, message: "invalid profile_pic: url set without key"},
		{body: `{"name":"` + strings.Repeat("n", userconf.MaxNameLength+1) + `","priority":0}`},
	}
	for _, c := range cases {
		code, body := doRequest(t, app, "PUT", "/profile/9", c.body)
		assert.Equal(fiber.StatusBadRequest, code, c.body)
		if c.message != "" {
			assert.Equal(jsonErrorMessageResponse(c.message), body, c.body)
		}
	}

	info, err := manager.UserInfo(context.Background(), 9)
	assert.NoError(err)
	assert.Equal(userconf.UserInfo{}, info)
}

func TestProfileControllerBlindedMsgRequests(t *testing.T) {
	assert := assert.New(t)

	app := newProfileApp(session.NewManager(inmem.NewDumpStore(), nil))

	code, body := doRequest(t, app, "GET", "/profile/3/blinded-msg-requests", "")
	assert.Equal(fiber.StatusOK, code)
	assert.Equal(`{"enabled":false}`, body)

	code, body = doRequest(t, app, "PUT", "/profile/3/blinded-msg-requests", `{"enabled":true}`)
	assert.Equal(fiber.StatusOK, code)
	assert.Equal(`{"enabled":true}`, body)

	code, body = doRequest(t, app, "GET", "/profile/3/blinded-msg-requests", "")
	assert.Equal(fiber.StatusOK, code)
	assert.Equal(`{"enabled":true}`, body)

	code, body = doRequest(t, app, "PUT", "/profile/3/blinded-msg-requests", `{"enabled":"yes"}`)
	assert.Equal(fiber.StatusBadRequest, code)
	assert.Equal(jsonErrorMessageResponse("enabled: expected bool"), body)
}

func TestProfileControllerInternalError(t *testing.T) {
	anError := assert.AnError
	assert := assert.New(t)

	app := newProfileApp(mock.UserConfigService{
		BlindedMsgRequestsFn: func(ctx context.Context, userId userconf.UserId) (bool, error) {
			return false, anError
		},
	})
	code, body := doRequest(t, app, "GET", "/profile/3/blinded-msg-requests", "")
	assert.Equal(fiber.StatusInternalServerError, code)
	assert.Equal(jsonErrorMessageResponse(fiber.ErrInternalServerError.Message), body)
}
