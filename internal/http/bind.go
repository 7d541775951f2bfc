package http

import (
	"encoding/base64"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/holiman/uint256"

	"github.com/hxuan190/curve-engine/internal/common"
	"github.com/hxuan190/curve-engine/internal/http/httputil"
)

// bindBody decodes a JSON request body with sonic. It writes a 400 and
// returns false on failure.
func bindBody(c *gin.Context, v interface{}) bool {
	data, err := c.GetRawData()
	if err != nil {
		httputil.HttpError(c, common.HTTPErrorBadRequest("failed to read request body"))
		return false
	}
	if err := sonic.Unmarshal(data, v); err != nil {
		httputil.HttpError(c, common.HTTPErrorBadRequest("invalid request body: "+err.Error()))
		return false
	}
	return true
}

func parseAmount(field, s string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, common.HTTPErrorBadRequest(fmt.Sprintf("invalid %s: must be an unsigned integer", field))
	}
	return v, nil
}

func parsePublicKey(field, s string) (solana.PublicKey, error) {
	if s == "" {
		return solana.PublicKey{}, nil
	}
	key, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, common.HTTPErrorBadRequest(fmt.Sprintf("invalid %s: %v", field, err))
	}
	return key, nil
}

func parseAccountData(field, s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, common.HTTPErrorBadRequest(fmt.Sprintf("invalid %s: must be base64", field))
	}
	return data, nil
}
