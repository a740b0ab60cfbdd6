/*
Package tenancysdk is a Go client for the tenancy service.

# SDKClient vs Session

SDKClient covers the public endpoints and creates sessions:

	client := tenancysdk.NewSDKClient("https://tenancy.example.com")

	health, err := client.GetReadiness(ctx)

	session, err := client.Login(ctx, "alice@example.com", password)

A Session carries a bearer token pair. Every Session method refreshes the
access token when it has expired, rotating the refresh token as it goes:

	tenant, err := session.CreateTenant(ctx, tenancysdk.CreateTenantRequest{
		Name: "Acme",
		Slug: "acme",
	})

	invite, err := session.CreateInvite(ctx, tenant.ID, tenancysdk.CreateInviteRequest{
		Email: "bob@example.com",
		Role:  "ADMIN",
	})

# Errors

Non-2xx responses are returned as *APIError, carrying the status, the
machine-readable code and the request id from the error envelope:

	if tenancysdk.IsStatus(err, http.StatusForbidden) {
		// not a member, or role too low
	}
*/
package tenancysdk
