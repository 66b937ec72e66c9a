package utils

import (
	"crypto/rand"
	"math/big"
)

const upperCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomUpperString 生成 n 位大写字母/数字随机串（订单号后缀等）
func RandomUpperString(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(upperCharset)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand 不可用时退化为固定字符，调用方有唯一索引兜底
			b[i] = upperCharset[0]
			continue
		}
		b[i] = upperCharset[idx.Int64()]
	}
	return string(b)
}
