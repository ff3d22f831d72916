package cli

import (
	"github.com/spf13/cobra"

	"github.com/yigit/schooladmin/internal/app/models/dto"
	"github.com/yigit/schooladmin/internal/console/resources"
)

type subjectFlags struct {
	name    string
	credits int
}

func (f *subjectFlags) register(cmd *cobra.Command, create bool) {
	cmd.Flags().StringVar(&f.name, "name", "", "Subject name")
	cmd.Flags().IntVar(&f.credits, "credits", 0, "Credit value (1-20)")
	if create {
		_ = cmd.MarkFlagRequired("name")
		_ = cmd.MarkFlagRequired("credits")
	}
}

func (f *subjectFlags) create() dto.CreateSubjectRequest {
	return dto.CreateSubjectRequest{Name: f.name, Credits: f.credits}
}

func (f *subjectFlags) patch(cmd *cobra.Command) dto.UpdateSubjectRequest {
	var p dto.UpdateSubjectRequest
	if cmd.Flags().Changed("name") {
		p.Name = &f.name
	}
	if cmd.Flags().Changed("credits") {
		p.Credits = &f.credits
	}
	return p
}

func newSubjectsCmd(app *App) *cobra.Command {
	return newCollectionCmd(app, resources.Subjects(), "Subject commands",
		func() inputFlags[dto.CreateSubjectRequest, dto.UpdateSubjectRequest] { return &subjectFlags{} })
}
