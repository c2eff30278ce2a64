package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/padraicbc/cupsurvey/models"
)

// SummaryCookie holds the signed, single-use summary of the last submission.
const SummaryCookie = "cupsurvey_summary"

// maxCookieValue keeps the cookie under the 4096 byte limit browsers enforce
// on name, value and attributes together.
const maxCookieValue = 3800

// SummaryClaims extends jwt.RegisteredClaims with the entry summary.
type SummaryClaims struct {
	Summary models.Summary `json:"summary"`
	jwt.RegisteredClaims
}

// SummaryStore keeps at most one unread Summary per browser in an HS256
// signed cookie. Reading it deletes it.
type SummaryStore struct {
	key    []byte
	ttl    time.Duration
	secure bool
	log    *zap.Logger
	now    func() time.Time
}

// NewSummaryStore signs summaries with key; they expire after ttl.
func NewSummaryStore(key []byte, ttl time.Duration, secure bool, log *zap.Logger) *SummaryStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &SummaryStore{key: key, ttl: ttl, secure: secure, log: log, now: time.Now}
}

// Put stores s, replacing any unread summary.
func (st *SummaryStore) Put(c echo.Context, s models.Summary) error {
	now := st.now()
	claims := &SummaryClaims{
		Summary: s,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(st.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(st.key)
	if err != nil {
		return fmt.Errorf("signing summary: %w", err)
	}
	if len(token) > maxCookieValue {
		return fmt.Errorf("summary cookie is %d bytes, limit %d", len(token), maxCookieValue)
	}
	c.SetCookie(st.cookie(token, now.Add(st.ttl)))
	return nil
}

// Take returns the stored summary and clears it. It returns nil when there is
// none, or when the cookie is expired or was not signed with our key.
func (st *SummaryStore) Take(c echo.Context) *models.Summary {
	ck, err := c.Cookie(SummaryCookie)
	if err != nil || ck.Value == "" {
		return nil
	}
	c.SetCookie(st.cookie("", time.Unix(0, 0)))

	claims := &SummaryClaims{}
	tkn, err := jwt.ParseWithClaims(ck.Value, claims, func(t *jwt.Token) (interface{}, error) {
		return st.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(st.now),
	)
	if err != nil || !tkn.Valid {
		if err != nil && !errors.Is(err, jwt.ErrTokenExpired) {
			st.log.Warn("discarding summary cookie", zap.Error(err))
		}
		return nil
	}
	return &claims.Summary
}

func (st *SummaryStore) cookie(value string, expires time.Time) *http.Cookie {
	ck := &http.Cookie{
		Name:     SummaryCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   st.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		ck.MaxAge = -1
	}
	return ck
}
