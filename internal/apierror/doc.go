// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

/*
Package apierror is the error taxonomy for the HTTP surface.

Every failure a handler produces, returned or panicked, goes through
Transform, which classifies it into one of ten types with a status code and
a severity. Handler then logs it, raises a security alert for
authentication, authorization and rate limit failures, pages on critical
errors and writes a JSON envelope:

	{"error":"Resource already exists","code":"23505","timestamp":"...","requestId":"..."}

Handlers opt in through Wrap:

	mux.Handle("/api/jobs/{id}", errs.Wrap(func(w http.ResponseWriter, r *http.Request) error {
	    job, err := repo.FindByID(r.Context(), chi.URLParam(r, "id"))
	    if err != nil {
	        return err
	    }
	    httputil.WriteJSON(w, http.StatusOK, job)
	    return nil
	}))

In production mode the details of critical errors are withheld from the
client; they remain in the log line.
*/
package apierror
