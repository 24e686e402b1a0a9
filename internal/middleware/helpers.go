// internal/middleware/helpers.go
package middleware

import "github.com/gin-gonic/gin"

// GetMerchantID gets the authenticated merchant ID from context
func GetMerchantID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("merchant_id")
	if !exists {
		return 0, false
	}

	id, ok := v.(int64)
	return id, ok
}

// MustGetMerchantID gets the merchant ID from context or panics
func MustGetMerchantID(c *gin.Context) int64 {
	id, exists := GetMerchantID(c)
	if !exists {
		panic("merchant_id not found in context")
	}
	return id
}

// GetJTI gets the token ID from context
func GetJTI(c *gin.Context) (string, bool) {
	v, exists := c.Get("jti")
	if !exists {
		return "", false
	}

	jti, ok := v.(string)
	return jti, ok
}

// MustGetJTI gets the token ID from context or panics
func MustGetJTI(c *gin.Context) string {
	jti, exists := GetJTI(c)
	if !exists {
		panic("jti not found in context")
	}
	return jti
}

// IsAuthenticated checks if request is authenticated
func IsAuthenticated(c *gin.Context) bool {
	_, exists := c.Get("merchant_id")
	return exists
}
