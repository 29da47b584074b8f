package notify

import "fyne.io/fyne/v2"

// AppToaster sends notifications through the fyne app.
type AppToaster struct {
	App fyne.App
}

// Toast implements Toaster.
func (toaster AppToaster) Toast(title, description string) {
	if toaster.App == nil {
		return
	}
	toaster.App.SendNotification(fyne.NewNotification(title, description))
}
