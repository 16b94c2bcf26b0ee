package mcpserver

// MailtoFormat documents how compose_contact_link turns form fields into a
// link. It is served as the folio://mailto-format resource.
const MailtoFormat = `# Contact link format

compose_contact_link builds the link the site's contact form navigates to:

    mailto:<recipient>?<name>=<value>&<name>=<value>&...

- Fields keep the order they are given in.
- Each value is percent-encoded like JavaScript's encodeURIComponent:
  letters, digits and - _ . ! ~ * ' ( ) stay as they are, a space
  becomes %20 and everything else is UTF-8 percent-encoded.
- Field names are written as given.
- Every pair, including the last, is followed by "&".

Pass the fields form-encoded, for example:

    subject=Hello%20there&body=Nice%20site

The conventional fields are name, email, subject and body. Mail clients
read subject and body; others are kept in the link as given.
`
