package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/cafehub/app/errs"
	"github.com/shashiranjanraj/cafehub/pkg/ctx"
)

func TestFailMapsTaxonomy(t *testing.T) {
	cases := []struct {
		err  error
		code int
		body string
	}{
		{errs.ErrForbidden, http.StatusForbidden, `"message":"Forbidden"`},
		{fmt.Errorf("detail: %w", errs.ErrNotFound), http.StatusNotFound, `"message":"Not found"`},
		{errs.Invalid(map[string]string{"name": "name is required"}), http.StatusUnprocessableEntity, `"name":"name is required"`},
		{errs.ErrDuplicateName, http.StatusConflict, errs.ErrDuplicateName.Error()},
		{errors.New("dial tcp 10.0.0.5:5432: connection refused"), http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		ctx.Wrap(func(c *ctx.Context) { fail(c, tc.err) })(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, tc.code, rec.Code, tc.err.Error())
		assert.Contains(t, rec.Body.String(), tc.body)
		assert.NotContains(t, rec.Body.String(), "10.0.0.5")
	}
}
