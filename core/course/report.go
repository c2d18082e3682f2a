package course

import (
	"bytes"
	"fmt"
	"net/mail"
	"strings"

	"github.com/pkg/errors"

	"github.com/kncumilla-crypto/attendance-system/core"
)

// ReportText renders the plain-text attendance summary shared by email.
func ReportText(crs Course) string {
	b := new(strings.Builder)
	fmt.Fprintf(b, "Attendance Report - %s (%s)\n", crs.Name, crs.ID)
	fmt.Fprintf(b, "Teacher: %s\n", crs.Teacher)
	fmt.Fprintf(b, "Students: %d\n", len(crs.Students))
	fmt.Fprintf(b, "Classes held: %d\n", len(crs.Dates))
	fmt.Fprintf(b, "Overall attendance: %.2f%%\n", crs.OverallPercentage())
	return b.String()
}

// EmailReport sends the course summary with the spreadsheet attached.
func (svc *Service) EmailReport(courseID string, to []mail.Address) error {
	crs, err := svc.repo.GetCourseByID(NormalizeID(courseID))
	if err != nil {
		return err
	}

	sheet := new(bytes.Buffer)
	if err := WriteXLSX(crs, sheet); err != nil {
		return errors.Wrap(err, "rendering report sheet")
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:          to,
		Subject:     fmt.Sprintf("Attendance Report - %s", crs.ID),
		TextContent: ReportText(crs),
		Attachments: []core.Attachment{{
			Filename:    ExportFilename(crs, "xlsx"),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Content:     sheet,
		}},
	})
	svc.logger.Info(fmt.Sprintf("attendance report for %s emailed to %d recipient(s)", crs.ID, len(to)))
	return nil
}
