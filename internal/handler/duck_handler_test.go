package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duckfarm/internal/model"
	"duckfarm/internal/store/memstore"
)

func newDuckFixture(t *testing.T) (*memstore.Store, *DuckHandler, *echo.Echo) {
	t.Helper()
	st := memstore.New()
	return st, NewDuckHandler(st), echo.New()
}

func duckRequest(e *echo.Echo, method, target, body string) (*httptest.ResponseRecorder, echo.Context) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, e.NewContext(req, rec)
}

func TestCreateDuckEndpoint(t *testing.T) {
	_, h, e := newDuckFixture(t)

	rec, c := duckRequest(e, http.MethodPost, "/api/ducks", `{"name":"Donald","price":"100.00"}`)
	require.NoError(t, h.CreateDuck(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var duck model.Duck
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &duck))
	assert.Equal(t, "Donald", duck.Name)
	assert.Equal(t, model.DuckAvailable, duck.Status)
	assert.False(t, duck.RegistrationDate.IsZero())
}

func TestCreateDuckRejectsNonPositivePrice(t *testing.T) {
	_, h, e := newDuckFixture(t)

	for _, body := range []string{
		`{"name":"Donald","price":"0"}`,
		`{"name":"Donald","price":"-5.00"}`,
		`{"name":"Donald","price":"cheap"}`,
	} {
		rec, c := duckRequest(e, http.MethodPost, "/api/ducks", body)
		require.NoError(t, h.CreateDuck(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestCreateDuckRejectsUnknownMother(t *testing.T) {
	_, h, e := newDuckFixture(t)

	rec, c := duckRequest(e, http.MethodPost, "/api/ducks", `{"name":"Junior","mother_id":99,"price":"10.00"}`)
	require.NoError(t, h.CreateDuck(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteDuckRefusesSoldDuck(t *testing.T) {
	st, h, e := newDuckFixture(t)
	ctx := context.Background()

	duck := model.NewDuck("Donald", nil, decimal.RequireFromString("100.00"))
	duck.Status = model.DuckSold
	require.NoError(t, st.CreateDuck(ctx, duck))

	rec, c := duckRequest(e, http.MethodDelete, "/api/ducks/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.DeleteDuck(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "DUCK_SOLD", resp["code"])

	// Still in the inventory.
	_, err := st.FindDuckByID(ctx, duck.ID)
	assert.NoError(t, err)
}

func TestDeleteDuckRemovesAvailableDuck(t *testing.T) {
	st, h, e := newDuckFixture(t)
	ctx := context.Background()

	duck := model.NewDuck("Donald", nil, decimal.RequireFromString("100.00"))
	require.NoError(t, st.CreateDuck(ctx, duck))

	rec, c := duckRequest(e, http.MethodDelete, "/api/ducks/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.DeleteDuck(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err := st.FindDuckByID(ctx, duck.ID)
	assert.Error(t, err)
}

func TestListDucksByStatusRejectsUnknownStatus(t *testing.T) {
	_, h, e := newDuckFixture(t)

	rec, c := duckRequest(e, http.MethodGet, "/api/ducks/status/FLYING", "")
	c.SetParamNames("status")
	c.SetParamValues("FLYING")

	require.NoError(t, h.ListDucksByStatus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListAvailableDucks(t *testing.T) {
	st, h, e := newDuckFixture(t)
	ctx := context.Background()

	available := model.NewDuck("Donald", nil, decimal.RequireFromString("100.00"))
	require.NoError(t, st.CreateDuck(ctx, available))
	sold := model.NewDuck("Daisy", nil, decimal.RequireFromString("50.00"))
	sold.Status = model.DuckSold
	require.NoError(t, st.CreateDuck(ctx, sold))

	rec, c := duckRequest(e, http.MethodGet, "/api/ducks/available", "")
	require.NoError(t, h.ListAvailableDucks(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var ducks []model.Duck
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ducks))
	require.Len(t, ducks, 1)
	assert.Equal(t, "Donald", ducks[0].Name)
}
