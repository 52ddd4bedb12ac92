package service

import "github.com/mmynk/dangidongi/pkg/api/apiconnect"

// AuthenticatedProcedures need a signed-in user. Pass them to
// middleware.RequireAuth; every other procedure is public.
var AuthenticatedProcedures = []string{
	apiconnect.SettlementServiceSaveCalculationProcedure,
	apiconnect.SettlementServiceListCalculationsProcedure,
	apiconnect.SettlementServiceDeleteCalculationProcedure,
	apiconnect.AuthServiceGetCurrentUserProcedure,
}
