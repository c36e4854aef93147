//go:build tools

package accord

import (
	_ "github.com/golang/mock/mockgen"
)
