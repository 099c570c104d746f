package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var csvHeader = []string{"Subcommittee", "Member ID", "Member Name", "Meetings Attended", "Convener", "Amount"}

// WriteCSV: Excel で文字化けしないよう UTF-8 BOM 付きで書く
func WriteCSV(w io.Writer, rows []Row) error {
	tw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	cw := csv.NewWriter(tw)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		convener := "No"
		if r.IsConvener {
			convener = "Yes"
		}
		rec := []string{
			r.SubcommitteeName,
			r.MemberID,
			r.MemberName,
			strconv.FormatInt(r.MeetingsAttended, 10),
			convener,
			strconv.FormatInt(int64(r.Amount), 10),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return tw.Close()
}
