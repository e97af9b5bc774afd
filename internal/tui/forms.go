package tui

import (
	"strconv"

	"github.com/Iron-Ham/fintrack/internal/models"
	"github.com/Iron-Ham/fintrack/internal/util"
)

// Field keys
const (
	keyEmail           = "email"
	keyPassword        = "password"
	keyPasswordConfirm = "password_confirm"
	keyUsername        = "username"
	keyFirstName       = "first_name"
	keyLastName        = "last_name"
	keyPhone           = "phone"
	keyName            = "name"
	keyDescription     = "description"
	keyAccountType     = "account_type"
	keyColor           = "color"
	keyAccount         = "account"
	keyCategory        = "category"
	keyTransactionType = "transaction_type"
	keyAmount          = "amount"
	keyNotes           = "notes"
	keyDate            = "date"
)

func loginFields() fieldSet {
	return newFieldSet(
		newTextField(keyEmail, "Email", ""),
		newPasswordField(keyPassword, "Password"),
	)
}

func readLogin(fs fieldSet) models.LoginRequest {
	return models.LoginRequest{
		Email:    fs.value(keyEmail),
		Password: fs.value(keyPassword),
	}
}

func registerFields() fieldSet {
	return newFieldSet(
		newTextField(keyUsername, "Username", ""),
		newTextField(keyEmail, "Email", ""),
		newTextField(keyFirstName, "First name", ""),
		newTextField(keyLastName, "Last name", ""),
		newTextField(keyPhone, "Phone (optional)", ""),
		newPasswordField(keyPassword, "Password"),
		newPasswordField(keyPasswordConfirm, "Confirm password"),
	)
}

func readRegister(fs fieldSet) models.RegisterRequest {
	return models.RegisterRequest{
		Username:        fs.value(keyUsername),
		Email:           fs.value(keyEmail),
		FirstName:       fs.value(keyFirstName),
		LastName:        fs.value(keyLastName),
		Phone:           fs.value(keyPhone),
		Password:        fs.value(keyPassword),
		PasswordConfirm: fs.value(keyPasswordConfirm),
	}
}

// enumChoices labels API enum values for a picker.
func enumChoices(values []string) []choice {
	out := make([]choice, len(values))
	for i, v := range values {
		out[i] = choice{value: v, label: util.Label(v)}
	}
	return out
}

func accountFields(in models.AccountInput) fieldSet {
	return newFieldSet(
		newTextField(keyName, "Name", in.Name),
		newChoiceField(keyAccountType, "Type", enumChoices(models.AccountTypes()), in.AccountType),
		newTextField(keyDescription, "Description", in.Description),
	)
}

func readAccount(fs fieldSet) models.AccountInput {
	return models.AccountInput{
		Name:        fs.value(keyName),
		AccountType: fs.value(keyAccountType),
		Description: fs.value(keyDescription),
	}
}

func categoryFields(in models.CategoryInput) fieldSet {
	return newFieldSet(
		newTextField(keyName, "Name", in.Name),
		newTextField(keyDescription, "Description", in.Description),
		newTextField(keyColor, "Color", in.Color),
	)
}

func readCategory(fs fieldSet) models.CategoryInput {
	return models.CategoryInput{
		Name:        fs.value(keyName),
		Description: fs.value(keyDescription),
		Color:       fs.value(keyColor),
	}
}

// transactionFields builds the transaction form. The account picker starts
// on a placeholder so an account has to be chosen; the category picker
// allows no category.
func transactionFields(in models.TransactionInput, accounts []models.Account, categories []models.Category) fieldSet {
	accountChoices := []choice{{value: "", label: "Select account"}}
	for _, a := range accounts {
		accountChoices = append(accountChoices, choice{value: formatID(a.ID), label: a.Name})
	}
	categoryChoices := []choice{{value: "", label: "No category"}}
	for _, c := range categories {
		categoryChoices = append(categoryChoices, choice{value: formatID(c.ID), label: c.Name})
	}

	category := ""
	if in.Category != nil {
		category = formatID(*in.Category)
	}
	account := ""
	if in.Account != 0 {
		account = formatID(in.Account)
	}

	return newFieldSet(
		newTextField(keyDescription, "Description", in.Description),
		newTextField(keyAmount, "Amount", in.Amount),
		newChoiceField(keyTransactionType, "Type", enumChoices(models.TransactionTypes()), in.TransactionType),
		newChoiceField(keyAccount, "Account", accountChoices, account),
		newChoiceField(keyCategory, "Category", categoryChoices, category),
		newTextField(keyDate, "Date", in.Date),
		newTextField(keyNotes, "Notes", in.Notes),
	)
}

func readTransaction(fs fieldSet) models.TransactionInput {
	in := models.TransactionInput{
		TransactionType: fs.value(keyTransactionType),
		Amount:          fs.value(keyAmount),
		Description:     fs.value(keyDescription),
		Notes:           fs.value(keyNotes),
		Date:            fs.value(keyDate),
	}
	in.Account, _ = strconv.ParseInt(fs.value(keyAccount), 10, 64)
	if id, err := strconv.ParseInt(fs.value(keyCategory), 10, 64); err == nil {
		in.Category = &id
	}
	return in
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
