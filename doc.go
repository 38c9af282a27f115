// Package translateplus provides a Go client SDK for the TranslatePlus
// translation API.
//
// The client translates plain text, batches of texts, HTML documents,
// emails and subtitles, detects languages, reports account usage and runs
// asynchronous i18n file jobs.
//
// Basic usage:
//
//	client, err := translateplus.New("your-api-key")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := client.Translate(ctx, "Hello", translateplus.AutoDetect, "fr")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(res.Map("translations").String("translation"))
//
// Every method returns either a ValidationError, raised before any request
// is sent, or an APIError. Use errors.Is with ErrAuthentication,
// ErrInsufficientCredits or ErrRateLimited to branch on the failure, or
// errors.As to reach the status code and decoded response body.
//
// Transport failures are retried with exponential backoff (1s, 2s, 4s, ...)
// up to Config.MaxRetries times. HTTP error responses are never retried.
//
// # Jobs
//
// CreateI18nJob uploads a localization file. WaitForI18nJob blocks until one
// job finishes; MonitorI18nJobs watches several and calls back on each
// status change:
//
//	monitor, err := client.MonitorI18nJobs([]string{id1, id2})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer monitor.Unsubscribe()
//
//	monitor.OnUpdate(func(u translateplus.JobUpdate) {
//	    fmt.Println(u.JobID, u.Status)
//	})
//	<-monitor.Done()
package translateplus
