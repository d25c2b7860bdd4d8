package locale

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Match 精确比较，不做 en / en-US 之类的归并
func Match(a, b string) bool { return a == b }

// Normalize 转为 BCP 47 规范形式（EN -> en，en_us -> en-US）；只在写入时使用
func Normalize(tag string) (string, error) {
	tag = strings.TrimSpace(strings.ReplaceAll(tag, "_", "-"))
	if tag == "" {
		return "", fmt.Errorf("empty locale tag")
	}
	t, err := language.Parse(tag)
	if err != nil {
		return "", fmt.Errorf("parse locale %q: %w", tag, err)
	}
	return t.String(), nil
}
