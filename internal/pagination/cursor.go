package pagination

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidCursor возвращается при повреждённом, подделанном или
// несовместимом с запросом курсоре.
var ErrInvalidCursor = errors.New("invalid cursor")

// Cursor держит позицию границы страницы: поле сортировки, каноническое
// строковое значение границы (nil — в сортируемой колонке был NULL),
// направление, id граничной строки и направление обхода.
type Cursor struct {
	SortField string
	SortValue *string
	Desc      bool
	Tiebreak  int64
	Reverse   bool
}

// MatchesOrdering проверяет, что курсор выдан под ту же сортировку,
// которую просит текущий запрос.
func (c Cursor) MatchesOrdering(sortField string, desc bool) bool {
	if c.SortField != sortField {
		return false
	}
	return c.SortField == "" || c.Desc == desc
}

type wireCursor struct {
	V     int     `json:"v"`
	Field string  `json:"f,omitempty"`
	Value *string `json:"s,omitempty"`
	Desc  bool    `json:"d,omitempty"`
	Tie   int64   `json:"t"`
	Rev   bool    `json:"r,omitempty"`
}

// Codec кодирует курсор в непрозрачный токен <payload>.<подпись> и
// проверяет подпись при декодировании.
type Codec struct {
	key []byte
}

// NewCodec создаёт кодек с HMAC-SHA256 подписью на данном секрете.
func NewCodec(secret string) *Codec {
	return &Codec{key: []byte(secret)}
}

// Encode сериализует курсор в подписанный токен.
func (c *Codec) Encode(cur Cursor) string {
	payload, err := json.Marshal(wireCursor{
		V:     1,
		Field: cur.SortField,
		Value: cur.SortValue,
		Desc:  cur.Desc,
		Tie:   cur.Tiebreak,
		Rev:   cur.Reverse,
	})
	if err != nil {
		// wireCursor состоит из простых типов, сюда не попадаем
		panic(err)
	}
	body := base64.RawURLEncoding.EncodeToString(payload)
	return body + "." + base64.RawURLEncoding.EncodeToString(c.sign(body))
}

// Decode проверяет подпись и восстанавливает курсор из токена.
func (c *Codec) Decode(token string) (Cursor, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return Cursor{}, fmt.Errorf("%w: malformed token", ErrInvalidCursor)
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: malformed signature", ErrInvalidCursor)
	}
	if !hmac.Equal(c.sign(parts[0]), sig) {
		return Cursor{}, fmt.Errorf("%w: signature mismatch", ErrInvalidCursor)
	}
	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: malformed payload", ErrInvalidCursor)
	}
	var w wireCursor
	if err := json.Unmarshal(raw, &w); err != nil {
		return Cursor{}, fmt.Errorf("%w: malformed payload", ErrInvalidCursor)
	}
	if w.V != 1 {
		return Cursor{}, fmt.Errorf("%w: unsupported version %d", ErrInvalidCursor, w.V)
	}
	if w.Field == "" && w.Value != nil {
		return Cursor{}, fmt.Errorf("%w: value without sort field", ErrInvalidCursor)
	}
	return Cursor{
		SortField: w.Field,
		SortValue: w.Value,
		Desc:      w.Desc,
		Tiebreak:  w.Tie,
		Reverse:   w.Rev,
	}, nil
}

func (c *Codec) sign(body string) []byte {
	mac := hmac.New(sha256.New, c.key)
	mac.Write([]byte(body))
	return mac.Sum(nil)
}

// FormatSortValue переводит значение граничной строки в каноническую
// строку для курсора. nil (и nil-указатель) означает NULL в колонке.
func FormatSortValue(v any) (*string, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case *string:
		if x == nil {
			return nil, nil
		}
		return ptr(*x), nil
	case string:
		return ptr(x), nil
	case *int64:
		if x == nil {
			return nil, nil
		}
		return ptr(strconv.FormatInt(*x, 10)), nil
	case int64:
		return ptr(strconv.FormatInt(x, 10)), nil
	case int:
		return ptr(strconv.Itoa(x)), nil
	case *float64:
		if x == nil {
			return nil, nil
		}
		return ptr(strconv.FormatFloat(*x, 'g', -1, 64)), nil
	case float64:
		return ptr(strconv.FormatFloat(x, 'g', -1, 64)), nil
	case *bool:
		if x == nil {
			return nil, nil
		}
		return ptr(strconv.FormatBool(*x)), nil
	case bool:
		return ptr(strconv.FormatBool(x)), nil
	case *time.Time:
		if x == nil {
			return nil, nil
		}
		return ptr(x.UTC().Format(time.RFC3339Nano)), nil
	case time.Time:
		return ptr(x.UTC().Format(time.RFC3339Nano)), nil
	default:
		return nil, fmt.Errorf("unsupported sort value type %T", v)
	}
}

func ptr(s string) *string { return &s }
