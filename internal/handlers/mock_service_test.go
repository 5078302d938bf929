package handlers

import (
	"context"
	"net/http"

	"controlling_doze/internal/models"
	"controlling_doze/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(ctx context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(ctx context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockDoze struct {
	enterErr   error
	leaveErr   error
	enterCalls int
	leaveCalls int
	lastSerial string
	lastType   models.DozeType
}

func (m *mockDoze) Enter(ctx context.Context, serial string, t models.DozeType) error {
	m.enterCalls++
	m.lastSerial = serial
	m.lastType = t
	return m.enterErr
}
func (m *mockDoze) Leave(ctx context.Context, serial string, t models.DozeType) error {
	m.leaveCalls++
	m.lastSerial = serial
	m.lastType = t
	return m.leaveErr
}

type mockMonitoring struct {
	snap        models.StatusSnapshot
	err         error
	snapErr     error
	statusCalls int
	lastSerial  string
}

func (m *mockMonitoring) GetStatus(ctx context.Context, serial string) (models.StatusSnapshot, error) {
	m.statusCalls++
	m.lastSerial = serial
	s := m.snap
	s.Serial = serial
	return s, m.err
}
func (m *mockMonitoring) LastSnapshot(ctx context.Context, serial string) (models.StatusSnapshot, error) {
	m.lastSerial = serial
	s := m.snap
	s.Serial = serial
	return s, m.snapErr
}

type mockEventLog struct {
	resp []models.DozeEvent
	err  error
	last service.LogFilter
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.DozeEvent, error) {
	m.last = f
	return m.resp, m.err
}

type mockDevices struct {
	list        []models.Device
	listErr     error
	registerErr error
	removeErr   error
	registered  []models.Device
	removed     []string
}

func (m *mockDevices) Register(ctx context.Context, d models.Device) (models.Device, error) {
	if m.registerErr != nil {
		return models.Device{}, m.registerErr
	}
	if d.Transport == "" {
		d.Transport = models.TransportADB
	}
	m.registered = append(m.registered, d)
	return d, nil
}
func (m *mockDevices) List(ctx context.Context) ([]models.Device, error) {
	return m.list, m.listErr
}
func (m *mockDevices) Remove(ctx context.Context, serial string) error {
	m.removed = append(m.removed, serial)
	return m.removeErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
