package code

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_WithDetailsDoesNotMutateRegistered(t *testing.T) {
	c := ErrorCompletionFailed.WithDetails("upstream 500")

	assert.True(t, c.HaveDetails())
	assert.Equal(t, []string{"upstream 500"}, c.Details())
	assert.False(t, ErrorCompletionFailed.HaveDetails())
	assert.Empty(t, ErrorCompletionFailed.Details())
}

func TestCode_ErrorsIsMatchesCopies(t *testing.T) {
	var err error = fmt.Errorf("wrap: %w", ErrorNoteNotFound.WithDetails("id"))

	assert.True(t, errors.Is(err, ErrorNoteNotFound))
	assert.False(t, errors.Is(err, ErrorDBQuery))
}

func TestCode_StatusCode(t *testing.T) {
	tests := []struct {
		c    *Code
		want int
	}{
		{Success, http.StatusOK},
		{SuccessCreate, http.StatusCreated},
		{SuccessDelete, http.StatusNoContent},
		{ErrorInvalidParams, http.StatusBadRequest},
		{ErrorNoteNotFound, http.StatusNotFound},
		{ErrorDBQuery, http.StatusInternalServerError},
		{ErrorCompletionFailed, http.StatusBadGateway},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.c.StatusCode(), tt.c.Msg())
	}
}

func TestLang_Fallback(t *testing.T) {
	l := lang{en: "hello"}
	assert.Equal(t, "hello", l.In(LangZH))
	assert.Equal(t, "你好", lang{en: "hello", zh_cn: "你好"}.In(LangZH))

	assert.Error(t, SetGlobalDefaultLang("fr"))
	assert.Equal(t, FALLBACK_LNG, GetGlobalDefaultLang())
}
