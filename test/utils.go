package test

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"makeoverapi/flows"
	"makeoverapi/languageutil"
	"makeoverapi/models"

	"github.com/golang-jwt/jwt/v4"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"
)

func JsonString(model interface{}) string {
	bytes, _ := json.Marshal(model)
	return string(bytes)
}

func NewJSONRequest(method string, target string, param interface{}) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(JsonString(param)))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	return req
}

func GenerateUserToken(userPk string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userPk,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	t, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		log.Fatalf("Error when signing user token for %s. Error %s ", userPk, err)
	}
	return t
}

func NewJSONAuthRequest(method string, target string, userPk string, param interface{}) *http.Request {
	req := NewJSONRequest(method, target, param)
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", GenerateUserToken(userPk)))
	return req
}

func FakeUser(db *gorm.DB) *models.UserAccount {
	return FakeUserV2(db, "OurName", "email@example.com")
}

func FakeUserV2(db *gorm.DB, userName string, email string) *models.UserAccount {
	if email == "" {
		email = "email@example.com"
	}
	user := &models.UserAccount{
		Name:                 userName,
		Email:                email,
		GoogleID:             "12232",
		Platform:             models.PlatformIOS,
		LastIp:               "123.122.122.122",
		Status:               "FINISHED_AUTH",
		AvatarURL:            "pictureurl",
		ReceiveNotifications: true,
	}
	db.Create(&user)
	tokenDb := models.UserPushToken{
		UserAccountID: user.ID,
		Platform:      "android",
		Token:         "cX-UZ3zwQEiPt-2GJkG2gA:APA91bGqRflaGrJrnynhRwZ442HdgUjVcO7mWMFnx6IwAdJ9RRKopvSP4QU7hbvTmk1XAp8XGvtHZLvo5JmOPTVKBbGqqvhfbZWKlXA9csEjx1hgpNvrWepU-rqG1sxS8_WCF5cGZchf",
		Active:        true,
	}
	db.Save(&tokenDb)
	db.First(&user, user.ID)
	return user
}

// PNGDataURI is a 1x1 transparent png.
const PNGDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

type GoogleServiceMock struct{}

func (gsm GoogleServiceMock) ValidateIdToken(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error) {
	return &idtoken.Payload{Issuer: "Issue", Audience: "AAA", Expires: 119919191919, IssuedAt: 12312321321, Subject: "fake@example.com", Claims: map[string]interface{}{
		"email":   "fake@example.com",
		"picture": "pictureurl",
		"sub":     "123googleid",
	}}, nil
}

// BucketMock presigns to fakebucketurl.com and keeps uploads in memory.
type BucketMock struct {
	ReadErr error
	mu      sync.Mutex
	puts    map[string][]byte
}

func (b *BucketMock) PresignUpload(ctx context.Context, key string) (string, error) {
	return "https://fakebucketurl.com/" + key, nil
}

func (b *BucketMock) PresignRead(ctx context.Context, key string) (string, error) {
	if b.ReadErr != nil {
		return "", b.ReadErr
	}
	return "https://fakebucketurl.com/direct/" + key, nil
}

func (b *BucketMock) PutImage(ctx context.Context, key string, image []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.puts == nil {
		b.puts = map[string][]byte{}
	}
	b.puts[key] = image
	return nil
}

// Put returns what was uploaded under key.
func (b *BucketMock) Put(key string) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.puts[key]
}

func (b *BucketMock) Puts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.puts)
}

func (b *BucketMock) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.puts = nil
}

type ReadURLMock struct{}

func (ReadURLMock) ReadURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	return "https://fakebucketurl.com/read/" + key, nil
}

type StubTextGenerator struct {
	mu       sync.Mutex
	Response flows.TextResponse
	Err      error
	Requests []flows.TextRequest
}

func TextJSON(v any) *StubTextGenerator {
	return &StubTextGenerator{Response: flows.TextResponse{Text: JsonString(v), InputTokenCount: 10, OutputTokenCount: 20}}
}

func (s *StubTextGenerator) GenerateText(ctx context.Context, req flows.TextRequest) (*flows.TextResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Requests = append(s.Requests, req)
	if s.Err != nil {
		return nil, s.Err
	}
	resp := s.Response
	return &resp, nil
}

func (s *StubTextGenerator) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Requests)
}

type StubImageGenerator struct {
	mu      sync.Mutex
	URI     string
	Err     error
	Prompts []string
}

func (s *StubImageGenerator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Prompts = append(s.Prompts, prompt)
	if s.Err != nil {
		return "", s.Err
	}
	return s.URI, nil
}

// StubProductFinder prices every item at $10.00 unless it is listed in Fail.
type StubProductFinder struct {
	Fail  map[string]error
	calls atomic.Int32
}

func (s *StubProductFinder) FindProduct(ctx context.Context, item string) (flows.Product, error) {
	s.calls.Add(1)
	if err, ok := s.Fail[item]; ok {
		return flows.Product{}, err
	}
	return flows.Product{
		Name:     languageutil.Title(item),
		Price:    "$10.00",
		URL:      flows.SearchURL(item),
		ImageURL: flows.PlaceholderProductImage,
	}, nil
}

func (s *StubProductFinder) Calls() int {
	return int(s.calls.Load())
}

type StubEventStyler struct {
	mu       sync.Mutex
	Result   *flows.GenerationResult
	Err      error
	Requests []flows.EventStylingRequest
}

func (s *StubEventStyler) EventStyling(ctx context.Context, req flows.EventStylingRequest) (*flows.GenerationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Requests = append(s.Requests, req)
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Result, nil
}

// Outfit is a canned text step answer valid for every outfit flow.
func Outfit() map[string]any {
	return map[string]any{
		"title":            "Effortless Weekend",
		"outfitSuggestion": "A relaxed linen set with white sneakers",
		"itemsList":        []string{"linen shirt", "linen trousers", "white sneakers"},
		"colorPalette":     []string{"beige", "white", "#C2B280"},
		"accessoryTips":    "Add a woven tote and gold hoops.",
	}
}

type Notification struct {
	UserID  uint
	Title   string
	Message string
	Data    map[string]string
}

type StubNotifier struct {
	mu   sync.Mutex
	Err  error
	Sent []Notification
}

func (s *StubNotifier) Notify(ctx context.Context, userID uint, title string, message string, customData map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Sent = append(s.Sent, Notification{UserID: userID, Title: title, Message: message, Data: customData})
	return nil
}
