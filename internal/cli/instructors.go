package cli

import (
	"github.com/spf13/cobra"

	"github.com/yigit/schooladmin/internal/app/models/dto"
	"github.com/yigit/schooladmin/internal/console/resources"
)

type instructorFlags struct {
	firstName   string
	lastName    string
	email       string
	phone       string
	dateOfBirth string
	status      string
	avatar      string
}

func (f *instructorFlags) register(cmd *cobra.Command, create bool) {
	cmd.Flags().StringVar(&f.firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&f.lastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&f.email, "email-address", "", "Contact email")
	cmd.Flags().StringVar(&f.phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&f.dateOfBirth, "born", "", "Date of birth (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.status, "status", "Active", "Active or Inactive")
	cmd.Flags().StringVar(&f.avatar, "avatar", "", "Avatar object key")
	if create {
		for _, name := range []string{"first-name", "last-name", "email-address", "phone", "born"} {
			_ = cmd.MarkFlagRequired(name)
		}
	}
}

func (f *instructorFlags) create() dto.CreateInstructorRequest {
	req := dto.CreateInstructorRequest{
		FirstName:   f.firstName,
		LastName:    f.lastName,
		Email:       f.email,
		Phone:       f.phone,
		DateOfBirth: f.dateOfBirth,
		Status:      f.status,
	}
	if f.avatar != "" {
		req.Avatar = &f.avatar
	}
	return req
}

func (f *instructorFlags) patch(cmd *cobra.Command) dto.UpdateInstructorRequest {
	var p dto.UpdateInstructorRequest
	set := func(flag string, dst **string, v *string) {
		if cmd.Flags().Changed(flag) {
			*dst = v
		}
	}
	set("first-name", &p.FirstName, &f.firstName)
	set("last-name", &p.LastName, &f.lastName)
	set("email-address", &p.Email, &f.email)
	set("phone", &p.Phone, &f.phone)
	set("born", &p.DateOfBirth, &f.dateOfBirth)
	set("status", &p.Status, &f.status)
	set("avatar", &p.Avatar, &f.avatar)
	return p
}

func newInstructorsCmd(app *App) *cobra.Command {
	return newCollectionCmd(app, resources.Instructors(), "Instructor commands",
		func() inputFlags[dto.CreateInstructorRequest, dto.UpdateInstructorRequest] { return &instructorFlags{} })
}
