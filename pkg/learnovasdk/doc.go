/*
Package learnovasdk is a Go client for the Learnova platform API.

# Client and Session

A Client covers the public endpoints: health, bootstrap, registration,
email verification and password recovery. Logging in yields a Session that
carries the bearer token for every other call:

	client := learnovasdk.NewClient("https://api.learnova.example")

	_, err := client.Register(ctx, learnovasdk.RegisterRequest{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "correct horse",
	})

	// ... follow the link from the verification email ...

	session, err := client.Login(ctx, "ada@example.com", "correct horse")
	me, err := session.Me(ctx)

Access tokens are not refreshed. A password change or reset revokes every
outstanding token; call Login again afterwards.

# Errors

Every non-2xx response is returned as an *APIError carrying the HTTP status
and the error code from the response envelope:

	_, err := session.AcceptInvitation(ctx, token)
	if learnovasdk.IsCode(err, learnovasdk.ErrorCodeGone) {
		// ask the instructor for a new invitation
	}

# Course invitations

Instructors invite students either with an explicit list or by uploading a
roster spreadsheet:

	res, err := session.UploadRoster(ctx, courseID, "class.xlsx", data, "", "")
	fmt.Println(res.Inserted, res.SkippedExisting)
*/
package learnovasdk
