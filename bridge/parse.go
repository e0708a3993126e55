package bridge

import (
	"errors"
	"strings"
)

func parseLevel(data string) (bool, error) {
	if !strings.HasPrefix(data, "BTN:") {
		return false, errors.New("unknown message: " + data)
	}
	switch strings.TrimPrefix(data, "BTN:") {
	case "0":
		return false, nil
	case "1":
		return true, nil
	}
	return false, errors.New("invalid level: " + data)
}
