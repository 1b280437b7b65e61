/*
Package webexsheets schedules Webex webinars from a roster maintained as a
Google Sheets worksheet.

webexsheets can be used from the command line but is really intended to be run
as a daemon (or from a cron job) to keep the webinars on a Webex site in sync
with the rows of a shared scheduling worksheet, writing the webinar IDs,
attendee URLs, host keys and registrant counts back to the worksheet.

webexsheets supports the following commands:

  - authorise, to authorise application access to the worksheet and the Webex site
  - schedule, to run a single scheduling pass over the worksheet
  - daemon, to run scheduling passes at a fixed interval
  - get, to download the webinar roster as a TSV file
  - version, to display the application version
*/
package webexsheets
