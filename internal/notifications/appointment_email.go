package notifications

import (
	"bytes"
	"html/template"

	"stuhealth-backend/internal/appointments"
)

const appointmentDecisionTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Hi {{.Name}},</p>
  <p>Your appointment request has been <strong>{{.Status}}</strong>.</p>
  <ul>
    <li>Date: {{.Date}}</li>
    <li>Time: {{.Time}}</li>
    {{if .DoctorName}}<li>Doctor: {{.DoctorName}}</li>{{end}}
    {{if .ResourceTitle}}<li>Related resource: {{.ResourceTitle}}</li>{{end}}
    <li>Reference: {{.AppointmentID}}</li>
  </ul>
  <p>Student Health Services</p>
</body>
</html>`

var appointmentDecisionTmpl = template.Must(template.New("appointment_decision").Parse(appointmentDecisionTemplate))

type appointmentDecisionData struct {
	Name          string
	Status        string
	Date          string
	Time          string
	DoctorName    string
	ResourceTitle string
	AppointmentID string
}

func buildAppointmentDecisionHTML(name string, appointment appointments.Appointment) (string, error) {
	if name == "" {
		name = appointment.StudentUsername
	}
	data := appointmentDecisionData{
		Name:          name,
		Status:        appointment.Status,
		Date:          appointment.Date,
		Time:          appointment.Time,
		DoctorName:    appointment.AssignedDoctorName,
		ResourceTitle: appointment.ResourceTitle,
		AppointmentID: appointment.ID,
	}
	var buf bytes.Buffer
	if err := appointmentDecisionTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
