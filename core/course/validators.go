package course

import (
	"github.com/go-playground/validator/v10"

	"github.com/kncumilla-crypto/attendance-system/core"
)

var (
	groupRequiredTag  = "grouprequired"
	groupRequiredText = "a group is required for advanced courses"

	groupForbiddenTag  = "groupforbidden"
	groupForbiddenText = "a group is only allowed for advanced courses"
)

func init() {
	core.Validate.RegisterStructValidation(courseStructValidation, NewCourse{})
	core.RegisterCustomTranslation(groupRequiredTag, groupRequiredText)
	core.RegisterCustomTranslation(groupForbiddenTag, groupForbiddenText)
}

type (
	NewCourse struct {
		ID      string `json:"id" validate:"required,idcode"`
		Name    string `json:"name" validate:"required"`
		Teacher string `json:"teacher" validate:"required"`
		Cohort  string `json:"cohort" validate:"required,oneof=1 2 3 4 advanced"`
		Group   string `json:"group"`
	}

	NewStudent struct {
		ID           string `json:"id" validate:"required,idcode"`
		Name         string `json:"name" validate:"required"`
		Registration string `json:"registration"`
	}
)

func (nc NewCourse) Validate() error {
	nc.ID = core.CleanString(nc.ID)
	nc.Name = core.CleanString(nc.Name)
	nc.Teacher = core.CleanString(nc.Teacher)
	nc.Group = core.CleanString(nc.Group)
	return core.Validate.Struct(nc)
}

func (ns NewStudent) Validate() error {
	ns.ID = core.CleanString(ns.ID)
	ns.Name = core.CleanString(ns.Name)
	return core.Validate.Struct(ns)
}

// courseStructValidation enforces the cohort/group invariant:
// advanced courses need a group, year courses must not have one.
func courseStructValidation(sl validator.StructLevel) {
	nc, ok := sl.Current().Interface().(NewCourse)
	if !ok {
		return
	}
	if nc.Cohort == CohortAdvanced && nc.Group == "" {
		sl.ReportError(nc.Group, "group", "Group", groupRequiredTag, "")
	}
	if nc.Cohort != CohortAdvanced && nc.Group != "" {
		sl.ReportError(nc.Group, "group", "Group", groupForbiddenTag, "")
	}
}
