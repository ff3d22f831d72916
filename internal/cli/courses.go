package cli

import (
	"github.com/spf13/cobra"

	"github.com/yigit/schooladmin/internal/app/models/dto"
	"github.com/yigit/schooladmin/internal/console/resources"
)

type courseFlags struct {
	subjectID    int64
	instructorID int64
	semesterID   int64
}

func (f *courseFlags) register(cmd *cobra.Command, create bool) {
	cmd.Flags().Int64Var(&f.subjectID, "subject", 0, "Subject id")
	cmd.Flags().Int64Var(&f.instructorID, "instructor", 0, "Instructor id")
	cmd.Flags().Int64Var(&f.semesterID, "semester", 0, "Semester id (see `adminctl semesters`)")
	if create {
		_ = cmd.MarkFlagRequired("subject")
		_ = cmd.MarkFlagRequired("instructor")
		_ = cmd.MarkFlagRequired("semester")
	}
}

func (f *courseFlags) create() dto.CreateCourseRequest {
	return dto.CreateCourseRequest{SubjectID: f.subjectID, InstructorID: f.instructorID, SemesterID: f.semesterID}
}

func (f *courseFlags) patch(cmd *cobra.Command) dto.UpdateCourseRequest {
	var p dto.UpdateCourseRequest
	if cmd.Flags().Changed("subject") {
		p.SubjectID = &f.subjectID
	}
	if cmd.Flags().Changed("instructor") {
		p.InstructorID = &f.instructorID
	}
	if cmd.Flags().Changed("semester") {
		p.SemesterID = &f.semesterID
	}
	return p
}

func newCoursesCmd(app *App) *cobra.Command {
	return newCollectionCmd(app, resources.Courses(), "Course assignment commands",
		func() inputFlags[dto.CreateCourseRequest, dto.UpdateCourseRequest] { return &courseFlags{} })
}
