package errors

// Localization keys carried by ValidationFailure and shown by the presenter.
const (
	KeyInvalidName       = "invalidname"
	KeyInvalidBirthDate  = "invalidbirthdate"
	KeyInvalidNationalID = "invalidtrid"
	KeyInvalidEmail      = "invalidemail"
	KeyInvalidPhone      = "invalidphone"
	KeyInvalidOrgName    = "invalidcname"
	KeyInvalidFax        = "invalidfax"
	KeyInvalidTaxID      = "invalidtaxno"
	KeyWeakPassword      = "weakpassword"
	KeyInvalidAddress    = "invalidaddress"
	KeyInvalidSex        = "invalidsex"
	KeyNoDisposalTypes   = "nodisposaltypes"
	KeyInvalidMeasure    = "invalidmeasure"
	KeyInvalidInput      = "invalidinput"

	KeyDuplicateNationalID = "alreadyregisteredtrid"
	KeyDuplicateEmail      = "alreadyregisteredemail"
	KeyDuplicatePhone      = "alreadyregisteredphone"
	KeyDuplicateTaxID      = "alreadyregisteredtaxno"
	KeyDuplicateOrgName    = "alreadyregisteredcname"
	KeyDuplicateFax        = "alreadyregisteredfax"

	KeyInvalidCredentials  = "invalidcredentials"
	KeyOldPasswordNoMatch  = "oldpasswordnomatch"
	KeyResetCooldown       = "resetcooldown"
	KeyProfileUpdateFailed = "profileupdatefailed"
	KeyReservationFailed   = "reservationfailed"
	KeyCancelFailed        = "cancelfailed"
	KeyRecycleFailed       = "recyclefailed"
	KeyDeleteFailed        = "deletefailed"
	KeyUnknownDisposalType = "unknowndisposaltype"
	KeyNotLoggedIn         = "notloggedin"
	KeyForbiddenAction     = "forbiddenaction"

	KeyNetworkWarning  = "networkwarning"
	KeyErrorDB         = "errordb"
	KeyErrorUnexpected = "errorunexpected"
)
