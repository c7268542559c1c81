package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoalesceStr(t *testing.T) {
	assert.Equal(t, "P003", CoalesceStr("", "P003", "DRAFT"))
	assert.Equal(t, "DRAFT", CoalesceStr("", "", "DRAFT"))
	assert.Equal(t, "", CoalesceStr())
	assert.Equal(t, "", CoalesceStr("", ""))
}
