package ui

import (
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-agecalc/internal/config"
	"github.com/tartampluch/go-agecalc/internal/engine"
)

// columnSortKeys maps table columns to roster sort keys.
var columnSortKeys = map[int]engine.SortKey{
	config.ColIDName:  engine.SortByName,
	config.ColIDBirth: engine.SortByBirth,
	config.ColIDAge:   engine.SortByAge,
	config.ColIDNext:  engine.SortByNext,
}

var columnTitleKeys = map[int]string{
	config.ColIDName:  config.TKeyColName,
	config.ColIDBirth: config.TKeyColBirth,
	config.ColIDAge:   config.TKeyColAge,
	config.ColIDNext:  config.TKeyColNext,
}

// dateLayout returns the localized short date layout.
func (app *AgeCalcApp) dateLayout() string {
	layout := app.GetMsg(config.TKeyFormatDate)
	if layout == config.TKeyFormatDate {
		return config.DateFormatDisplay
	}
	return layout
}

// cellText renders one cell of the contacts table.
func (app *AgeCalcApp) cellText(c engine.Contact, col int) string {
	switch col {
	case config.ColIDName:
		return c.Name
	case config.ColIDBirth:
		if !c.YearKnown {
			return fmt.Sprintf(config.FormatMonthDay, int(c.Birth.Month), c.Birth.Day)
		}
		return c.Birth.Time(time.UTC).Format(app.dateLayout())
	case config.ColIDAge:
		if !c.YearKnown {
			return config.AgeUnknown
		}
		return fmt.Sprintf(config.FormatAgeShort, c.Age.Years, c.Age.Months, c.Age.Days)
	default:
		return c.NextBirthday.Time(time.UTC).Format(app.dateLayout())
	}
}

// ShowContactsWindow lists the loaded roster with sortable columns.
// If the window is already open it is focused instead.
func (app *AgeCalcApp) ShowContactsWindow() {
	if app.contactsWindow != nil {
		app.contactsWindow.RequestFocus()
		return
	}

	app.contactsWindow = app.App.NewWindow(app.GetMsg(config.TKeyWinContacts))
	app.contactsWindow.Resize(fyne.NewSize(config.ContactsWinWidth, config.ContactsWinHeight))

	// The table sorts its own copy so the sync worker can replace app.Contacts meanwhile.
	app.ContactsMut.RLock()
	rows := make([]engine.Contact, len(app.Contacts))
	copy(rows, app.Contacts)
	app.ContactsMut.RUnlock()

	slog.Info(config.LogMsgOpenWin,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyCount, len(rows))

	sortCol := config.ColIDNext
	sortAsc := true

	applySort := func() {
		engine.SortContacts(rows, columnSortKeys[sortCol], sortAsc)
		slog.Debug(config.LogMsgSorted,
			config.LogKeyComponent, config.CompUI,
			config.LogKeySortCol, sortCol,
			config.LogKeySortAsc, sortAsc)
	}
	applySort()

	table := widget.NewTable(
		func() (int, int) {
			return len(rows), config.ColCount
		},
		func() fyne.CanvasObject {
			return widget.NewLabel(config.TablePlaceholder)
		},
		func(id widget.TableCellID, o fyne.CanvasObject) {
			if id.Row >= len(rows) {
				return
			}
			o.(*widget.Label).SetText(app.cellText(rows[id.Row], id.Col))
		},
	)

	table.ShowHeaderRow = true
	table.CreateHeader = func() fyne.CanvasObject {
		return widget.NewButton(config.TablePlaceholder, nil)
	}
	table.UpdateHeader = func(id widget.TableCellID, o fyne.CanvasObject) {
		btn := o.(*widget.Button)

		text := app.GetMsg(columnTitleKeys[id.Col])
		if id.Col == sortCol {
			if sortAsc {
				text += config.SortIconAsc
			} else {
				text += config.SortIconDesc
			}
		}
		btn.SetText(text)

		btn.OnTapped = func() {
			if sortCol == id.Col {
				sortAsc = !sortAsc
			} else {
				sortCol = id.Col
				sortAsc = true
			}
			applySort()
			table.Refresh()
		}
	}

	table.SetColumnWidth(config.ColIDName, config.ColWidthName)
	table.SetColumnWidth(config.ColIDBirth, config.ColWidthBirth)
	table.SetColumnWidth(config.ColIDAge, config.ColWidthAge)
	table.SetColumnWidth(config.ColIDNext, config.ColWidthNext)

	app.contactsWindow.SetContent(container.NewBorder(nil, nil, nil, nil, table))
	app.contactsWindow.SetOnClosed(func() {
		app.contactsWindow = nil
	})
	app.contactsWindow.Show()
}
