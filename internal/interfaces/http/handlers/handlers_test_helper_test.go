package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"merchant-connect.backend/internal/domain/entities"
	"merchant-connect.backend/internal/domain/gateway"
	domainrepos "merchant-connect.backend/internal/domain/repositories"
	"merchant-connect.backend/internal/infrastructure/datasources"
	"merchant-connect.backend/internal/infrastructure/repositories"
	"merchant-connect.backend/internal/interfaces/http/templates"
	"merchant-connect.backend/internal/usecases"
	"merchant-connect.backend/pkg/crypto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testKeyRing = "k1:Jt4BWW375DkoBaiX22bQRt6xzwnFdUIbTCENxK4lOqw="

type fakeGateway struct {
	mu          sync.Mutex
	connectURL  string
	lastConnect gateway.ConnectParams
	exchanged   []string
	exchangeErr error
	tokens      []string
	sales       []entities.SaleRequest
	saleResult  *entities.SaleResult
	saleErr     error
	txns        []entities.Transaction
}

func (f *fakeGateway) OAuth() gateway.OAuthClient { return f }

func (f *fakeGateway) ForMerchant(accessToken string) gateway.MerchantClient {
	f.mu.Lock()
	f.tokens = append(f.tokens, accessToken)
	f.mu.Unlock()
	return f
}

func (f *fakeGateway) ConnectURL(params gateway.ConnectParams) string {
	f.lastConnect = params
	return f.connectURL + "?state=" + params.State
}

func (f *fakeGateway) CreateTokenFromCode(_ context.Context, code string) (*entities.OAuthCredentials, error) {
	f.exchanged = append(f.exchanged, code)
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return &entities.OAuthCredentials{AccessToken: "access-" + code, RefreshToken: "refresh-" + code}, nil
}

func (f *fakeGateway) GenerateClientToken(context.Context) (string, error) {
	return "client-token-xyz", nil
}

func (f *fakeGateway) Sale(_ context.Context, req entities.SaleRequest) (*entities.SaleResult, error) {
	f.sales = append(f.sales, req)
	if f.saleErr != nil {
		return nil, f.saleErr
	}
	if f.saleResult != nil {
		return f.saleResult, nil
	}
	return &entities.SaleResult{Success: true, Transaction: &entities.Transaction{ID: "txn1"}}, nil
}

func (f *fakeGateway) SearchTransactions(context.Context, int) ([]entities.Transaction, error) {
	return f.txns, nil
}

type testApp struct {
	engine  *gin.Engine
	repo    *repositories.MerchantRepository
	gateway *fakeGateway
	vault   *usecases.TokenVault
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, datasources.Migrate(db))
	return db
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	ring, err := crypto.ParseKeyRing(testKeyRing)
	require.NoError(t, err)
	cipher, err := crypto.NewTokenCipher(ring, "")
	require.NoError(t, err)

	app := &testApp{
		repo:    repositories.NewMerchantRepository(newTestDB(t)),
		gateway: &fakeGateway{connectURL: "https://gateway.test/oauth/connect"},
		vault:   usecases.NewTokenVault(cipher),
	}

	merchantHandler := NewMerchantHandler(usecases.NewMerchantUsecase(app.repo, app.gateway, app.vault, "http://localhost:4567/callback"))
	oauthHandler := NewOAuthHandler(usecases.NewOAuthUsecase(app.repo, app.gateway, app.vault))
	transactionHandler := NewTransactionHandler(usecases.NewTransactionUsecase(app.repo, app.gateway, app.vault))

	tmpl, err := templates.Load()
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.GET("/", NewHomeHandler().Index)
	r.POST("/merchants", merchantHandler.Signup)
	r.GET("/merchant/:public_id", merchantHandler.Show)
	r.POST("/merchant/:public_id/transactions", transactionHandler.Create)
	r.GET("/callback", oauthHandler.Callback)
	app.engine = r
	return app
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *testApp) seedMerchant(t *testing.T, email string) *entities.Merchant {
	t.Helper()
	m := &entities.Merchant{Email: email, CountryCode: "USA"}
	require.NoError(t, a.repo.Create(context.Background(), m))
	return m
}

// connect stores credentials the way a completed callback would
func (a *testApp) connect(t *testing.T, m *entities.Merchant, accessToken string) {
	t.Helper()
	require.NoError(t, a.vault.SetAccessToken(m, accessToken))
	m.BraintreeID.SetValid("gw-" + m.PublicID)
	require.NoError(t, a.repo.UpdateCredentials(context.Background(), m.ID, repositoryCreds(m)))
}

func repositoryCreds(m *entities.Merchant) domainrepos.StoredCredentials {
	return domainrepos.StoredCredentials{
		EncryptedAccessToken:  m.EncryptedAccessToken,
		EncryptedRefreshToken: m.EncryptedRefreshToken,
		BraintreeID:           m.BraintreeID,
	}
}
