package checkin

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/aircheckin/internal/domain"
	"github.com/google/uuid"
)

var nonDigits = regexp.MustCompile(`\D`)

// GenerateBoardingPass builds a display-only boarding pass code embedding
// the flight number and PNR, suffixed with a time-based and random part
// for uniqueness.
func GenerateBoardingPass(pnr, flightNumber string) string {
	timestamp := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return fmt.Sprintf("BP-%s-%s-%s%s", flightNumber, pnr, timestamp, random)
}

// BoardingGroupFor buckets passengers for boarding priority: premium
// cabins board first, then economy front to back by seat row.
func BoardingGroupFor(seat *domain.Seat) domain.BoardingGroup {
	if seat.Class == domain.SeatClassFirst || seat.Class == domain.SeatClassBusiness {
		return domain.BoardingGroupA
	}

	row, _ := strconv.Atoi(nonDigits.ReplaceAllString(seat.SeatNumber, ""))
	switch {
	case row <= 10:
		return domain.BoardingGroupB
	case row <= 20:
		return domain.BoardingGroupC
	default:
		return domain.BoardingGroupD
	}
}
