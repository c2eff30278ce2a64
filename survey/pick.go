package survey

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/padraicbc/cupsurvey/models"
)

var errNoPick = errors.New("no pick submitted")

// ParsePick decodes a structured pick. Separate name and rank fields win;
// otherwise composite is split on "|" and the numeric side is taken as the
// rank, so both "Kyle Larson|5" and "5|Kyle Larson" decode the same.
func ParsePick(composite, name, rank string) (models.Pick, error) {
	name, rank = strings.TrimSpace(name), strings.TrimSpace(rank)
	if name != "" {
		n, err := parseRank(rank)
		if err != nil {
			return models.Pick{}, err
		}
		return models.Pick{Rank: n, Name: name}, nil
	}

	composite = strings.TrimSpace(composite)
	if composite == "" {
		return models.Pick{}, errNoPick
	}
	left, right, ok := strings.Cut(composite, "|")
	if !ok || strings.Contains(right, "|") {
		return models.Pick{}, fmt.Errorf("pick %q: want name|rank", composite)
	}
	left, right = strings.TrimSpace(left), strings.TrimSpace(right)

	switch {
	case isDigits(right) && !isDigits(left) && left != "":
		n, err := parseRank(right)
		if err != nil {
			return models.Pick{}, err
		}
		return models.Pick{Rank: n, Name: left}, nil
	case isDigits(left) && !isDigits(right) && right != "":
		n, err := parseRank(left)
		if err != nil {
			return models.Pick{}, err
		}
		return models.Pick{Rank: n, Name: right}, nil
	}
	return models.Pick{}, fmt.Errorf("pick %q: want name|rank", composite)
}

// EncodePick is the inverse of ParsePick for dropdown option values.
func EncodePick(p models.Pick) string {
	return p.Name + "|" + strconv.Itoa(p.Rank)
}

func parseRank(s string) (int, error) {
	if !isDigits(s) {
		return 0, fmt.Errorf("rank %q is not a number", s)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("rank %q: %w", s, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("rank %d must be positive", n)
	}
	return n, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
